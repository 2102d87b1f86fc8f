package artifact

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Survey is the career finder questionnaire.
type Survey struct {
	Subjects  []string `json:"subjects" validate:"required,min=1,dive,required"`
	Score     int      `json:"score" validate:"min=0,max=100"`
	Interests []string `json:"interests" validate:"required,min=1,dive,required"`
	WorkStyle string   `json:"work_style" validate:"required"`
	Budget    string   `json:"budget" validate:"required"`
	Relocate  bool     `json:"relocate"`
	HomeState string   `json:"home_state" validate:"required"`
	Cities    []string `json:"cities" validate:"dive,required"`
}

// Validate checks the survey using the validator.
func (s *Survey) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid survey: %w", err)
	}
	return nil
}

type surveyVariables struct {
	Subjects  string `mapstructure:"subjects"`
	Score     string `mapstructure:"score"`
	Interests string `mapstructure:"interests"`
	WorkStyle string `mapstructure:"work_style"`
	Budget    string `mapstructure:"budget"`
	Relocate  string `mapstructure:"relocate"`
	HomeState string `mapstructure:"home_state"`
	Cities    string `mapstructure:"cities"`
}

// Variables flattens the survey into the careers template variables.
func (s *Survey) Variables() (map[string]string, error) {
	cities := "Any"
	if len(s.Cities) > 0 {
		cities = strings.Join(s.Cities, ", ")
	}

	flat := surveyVariables{
		Subjects:  strings.Join(s.Subjects, ", "),
		Score:     strconv.Itoa(s.Score),
		Interests: strings.Join(s.Interests, ", "),
		WorkStyle: s.WorkStyle,
		Budget:    s.Budget,
		Relocate:  yesNo(s.Relocate),
		HomeState: s.HomeState,
		Cities:    cities,
	}

	vars := make(map[string]string)
	if err := mapstructure.Decode(flat, &vars); err != nil {
		return nil, fmt.Errorf("flatten survey: %w", err)
	}
	return vars, nil
}

// Key is a canonical natural key for the survey. Selection order of list answers does not
// change it.
func (s *Survey) Key() string {
	norm := func(in []string) string {
		out := make([]string, 0, len(in))
		for _, v := range in {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				out = append(out, v)
			}
		}
		slices.Sort(out)
		return strings.Join(slices.Compact(out), ",")
	}

	return strings.Join([]string{
		"survey",
		"subjects=" + norm(s.Subjects),
		"score=" + strconv.Itoa(s.Score),
		"interests=" + norm(s.Interests),
		"work_style=" + strings.TrimSpace(s.WorkStyle),
		"budget=" + strings.TrimSpace(s.Budget),
		"relocate=" + yesNo(s.Relocate),
		"home_state=" + strings.TrimSpace(s.HomeState),
		"cities=" + norm(s.Cities),
	}, "|")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
