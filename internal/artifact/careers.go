package artifact

import (
	"github.com/careeroai/careero/internal/schema"
	"github.com/careeroai/careero/internal/structured"
)

const (
	CareerCount          = 3
	CollegesPerOwnership = 10
)

// CollegeEntry is one ranked college.
type CollegeEntry struct {
	Name              string `json:"name"`
	FeesRange         string `json:"fees_range"`
	Location          string `json:"location"`
	EntrancesRequired string `json:"entrances_required"`
	DifficultyLevel   string `json:"difficulty_level"`
	AveragePackage    string `json:"average_package"`
}

// TopColleges splits colleges by ownership.
type TopColleges struct {
	Government []CollegeEntry `json:"government"`
	Private    []CollegeEntry `json:"private"`
}

type CareerSuggestion struct {
	CareerName    string      `json:"career_name"`
	AverageSalary string      `json:"average_salary"`
	Reasoning     string      `json:"reasoning"`
	TopColleges   TopColleges `json:"top_colleges"`
}

// CareerSuggestionSet is the career finder result.
type CareerSuggestionSet struct {
	Careers []CareerSuggestion `json:"careers"`
}

// Names returns the career names in order.
func (s *CareerSuggestionSet) Names() []string {
	names := make([]string, 0, len(s.Careers))
	for _, c := range s.Careers {
		names = append(names, c.CareerName)
	}
	return names
}

var collegeFields = []schema.Field{
	{Name: "name"},
	{Name: "fees_range", Description: "annual fee range"},
	{Name: "location", Description: "city and state"},
	{Name: "entrances_required", Description: "entrance exams accepted"},
	{Name: "difficulty_level", Description: "admission difficulty"},
	{Name: "average_package", Description: "average placement package"},
}

func collegeList(name, description string) schema.Field {
	return schema.Field{
		Name:        name,
		Description: description,
		Kind:        schema.KindRecordList,
		Fields:      collegeFields,
		MinItems:    CollegesPerOwnership,
		MaxItems:    CollegesPerOwnership,
	}
}

var careerSpec = schema.MustNew("career_suggestions",
	schema.Field{
		Name:     "careers",
		Kind:     schema.KindRecordList,
		MinItems: CareerCount,
		MaxItems: CareerCount,
		Fields: []schema.Field{
			{Name: "career_name"},
			{Name: "average_salary", Description: "average starting salary"},
			{Name: "reasoning", Description: "why this career fits the student"},
			{
				Name: "top_colleges",
				Kind: schema.KindObject,
				Fields: []schema.Field{
					collegeList("government", "government colleges sorted by the latest NIRF ranking"),
					collegeList("private", "private colleges sorted by the latest NIRF ranking"),
				},
			},
		},
	},
)

// CareerSpec describes a CareerSuggestionSet to the model and to the parser.
func CareerSpec() *schema.Spec {
	return careerSpec
}

func DecodeCareers(a *structured.Artifact) (*CareerSuggestionSet, error) {
	var s CareerSuggestionSet
	if err := a.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
