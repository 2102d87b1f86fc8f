package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/careeroai/careero/internal/artifact"
)

func TestRenderEvaluation(t *testing.T) {
	var eval artifact.Evaluation
	raw := `{
		"education": {"score": 8, "positive": ["Relevant degree"]},
		"skills": {"score": 6, "positive": ["Go"], "negative": ["No Kubernetes"]},
		"experience": 7,
		"projects": 5,
		"global_score": 6.5,
		"title": "Backend Engineer at Acme",
		"areas_to_improve": [{"area": "Kubernetes", "importance": "High", "current_level": "Beginner", "time_to_prepare": "4 weeks"}]
	}`
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	renderEvaluation(&buf, &eval)
	out := buf.String()

	for _, want := range []string{
		"Backend Engineer at Acme",
		"Global score: 6.5/10",
		"+ Relevant degree",
		"- No Kubernetes",
		"Kubernetes  High",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	if strings.Count(out, noNegativePoints) != 1 {
		t.Fatalf("expected exactly one %q line, got:\n%s", noNegativePoints, out)
	}
}

func TestRenderCareerWithoutColleges(t *testing.T) {
	var buf bytes.Buffer
	renderCareer(&buf, artifact.CareerSuggestion{CareerName: "Data Scientist", Reasoning: "likes maths", AverageSalary: "8 LPA"})

	out := buf.String()
	if !strings.Contains(out, "Insights for: Data Scientist") {
		t.Fatalf("missing header:\n%s", out)
	}
	if strings.Count(out, "No colleges found") != 2 {
		t.Fatalf("expected both college tables to be empty:\n%s", out)
	}
}
