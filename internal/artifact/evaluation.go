package artifact

import (
	"github.com/careeroai/careero/internal/schema"
	"github.com/careeroai/careero/internal/structured"
)

// ImprovementArea is one row of the gap analysis.
type ImprovementArea struct {
	Area          string `json:"area"`
	Importance    string `json:"importance"`
	CurrentLevel  string `json:"current_level"`
	TimeToPrepare string `json:"time_to_prepare"`
}

// Evaluation is a resume scored against a job description.
type Evaluation struct {
	Education      MetricValue       `json:"education"`
	Skills         MetricValue       `json:"skills"`
	Experience     MetricValue       `json:"experience"`
	Projects       MetricValue       `json:"projects"`
	GlobalScore    float64           `json:"global_score"`
	Title          string            `json:"title"`
	AreasToImprove []ImprovementArea `json:"areas_to_improve"`
}

// NamedMetric pairs a metric with its display label.
type NamedMetric struct {
	Label string
	Value MetricValue
}

// Metrics returns the four metrics in display order.
func (e *Evaluation) Metrics() []NamedMetric {
	return []NamedMetric{
		{Label: "Education", Value: e.Education},
		{Label: "Skills", Value: e.Skills},
		{Label: "Experience", Value: e.Experience},
		{Label: "Projects", Value: e.Projects},
	}
}

func metric(name, description string) schema.Field {
	return schema.Field{
		Name:        name,
		Description: description,
		Kind:        schema.KindMetric,
		Bounded:     true,
		Minimum:     0,
		Maximum:     10,
	}
}

var evaluationSpec = schema.MustNew("evaluation",
	metric("education", "how well the education aligns with the job requirements"),
	metric("skills", "how many of the required skills and keywords are present"),
	metric("experience", "how relevant and substantial the work experience is"),
	metric("projects", "how relevant the projects are to the job responsibilities"),
	schema.Field{
		Name:        "global_score",
		Description: "simple average of the four metric scores",
		Type:        schema.TypeNumber,
		Bounded:     true,
		Minimum:     0,
		Maximum:     10,
	},
	schema.Field{Name: "title", Description: `"Job Title at Company"`},
	schema.Field{
		Name:        "areas_to_improve",
		Description: "3 to 5 key areas to focus on",
		Kind:        schema.KindRecordList,
		Fields: []schema.Field{
			{Name: "area"},
			{Name: "importance", Description: "High, Medium or Low"},
			{Name: "current_level", Description: "Beginner, Intermediate or Advanced"},
			{Name: "time_to_prepare", Description: "realistic time to become interview-ready"},
		},
		MinItems: 1,
	},
)

// EvaluationSpec describes an Evaluation to the model and to the parser.
func EvaluationSpec() *schema.Spec {
	return evaluationSpec
}

// DecodeEvaluation converts a validated artifact into an Evaluation.
func DecodeEvaluation(a *structured.Artifact) (*Evaluation, error) {
	var e Evaluation
	if err := a.Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
