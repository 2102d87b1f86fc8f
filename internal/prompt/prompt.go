// Package prompt renders model instructions from embedded templates.
//
// Templates use {{name}} placeholders. Every placeholder that appears in a template is a
// required variable.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/careeroai/careero/internal/schema"
)

//go:embed templates/*.md
var templateFiles embed.FS

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z0-9_]+)\s*\}\}`)

// ErrMissingVariable matches every *MissingVariableError.
var ErrMissingVariable = errors.New("missing template variable")

// MissingVariableError reports required variables that were absent or blank.
type MissingVariableError struct {
	Template string
	Names    []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template %s: missing variables: %s", e.Template, strings.Join(e.Names, ", "))
}

func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// Template is a named instruction template.
type Template struct {
	Name string
	Text string
}

// Variables lists the placeholders of the template in order of first appearance.
func (t Template) Variables() []string {
	matches := placeholderRe.FindAllStringSubmatch(t.Text, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// Build renders the template with vars and appends the format instructions of spec when it is
// not nil.
func Build(tmpl Template, vars map[string]string, spec *schema.Spec) (string, error) {
	var missing []string
	for _, name := range tmpl.Variables() {
		if strings.TrimSpace(vars[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &MissingVariableError{Template: tmpl.Name, Names: missing}
	}

	rendered := placeholderRe.ReplaceAllStringFunc(tmpl.Text, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		return strings.TrimSpace(vars[name])
	})
	rendered = strings.TrimSpace(rendered)

	if spec == nil {
		return rendered, nil
	}

	return rendered + "\n\n" + spec.FormatInstructions(), nil
}

// Load reads an embedded template by name, without the .md extension.
func Load(name string) (Template, error) {
	data, err := templateFiles.ReadFile("templates/" + name + ".md")
	if err != nil {
		return Template{}, fmt.Errorf("read template %s: %w", name, err)
	}
	return Template{Name: name, Text: string(data)}, nil
}

// MustLoad is Load for templates shipped with the binary.
func MustLoad(name string) Template {
	tmpl, err := Load(name)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Shipped templates.
var (
	Evaluation = MustLoad("evaluation")
	Careers    = MustLoad("careers")
	ChatSystem = MustLoad("chat_system")
)
