// Package structured turns free-form model output into validated records.
package structured

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/careeroai/careero/internal/schema"
)

// ErrSchemaViolation matches every *SchemaViolation.
var ErrSchemaViolation = errors.New("schema violation")

// FieldError is a single problem found at a field path.
type FieldError struct {
	Field   string
	Message string
}

// SchemaViolation reports that a response did not conform to its schema.
type SchemaViolation struct {
	Schema string
	Errors []FieldError
}

func (e *SchemaViolation) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "response does not match schema %s", e.Schema)
	for i, fe := range e.Errors {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}

func (e *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}

// Artifact is a validated structured result.
type Artifact struct {
	Schema string
	Fields map[string]any
	Raw    json.RawMessage
}

// Decode unmarshals the validated JSON into v.
func (a *Artifact) Decode(v any) error {
	if a == nil {
		return errors.New("nil artifact")
	}
	if err := json.Unmarshal(a.Raw, v); err != nil {
		return fmt.Errorf("decode %s artifact: %w", a.Schema, err)
	}
	return nil
}

// Title returns the top-level "title" field, if the artifact has one.
func (a *Artifact) Title() string {
	if a == nil {
		return ""
	}
	title, _ := a.Fields["title"].(string)
	return strings.TrimSpace(title)
}

// Parser validates raw model responses against a schema.Spec. It never repairs or fills in
// defaults: anything that does not validate is rejected.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts the JSON document from raw and validates it against spec.
func (p *Parser) Parse(raw string, spec *schema.Spec) (*Artifact, error) {
	if spec == nil {
		return nil, errors.New("parse: schema is required")
	}

	data := []byte(extractJSON(raw))

	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&fields); err != nil {
		return nil, violation(spec, "(root)", "response is not a JSON object: "+err.Error())
	}
	if dec.More() {
		return nil, violation(spec, "(root)", "unexpected content after the JSON object")
	}
	if fields == nil {
		return nil, violation(spec, "(root)", "response is null")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(spec.JSONSchema()),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate against schema %s: %w", spec.Name, err)
	}

	if !result.Valid() {
		v := &SchemaViolation{Schema: spec.Name, Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			v.Errors = append(v.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, v
	}

	return &Artifact{Schema: spec.Name, Fields: fields, Raw: json.RawMessage(data)}, nil
}

func violation(spec *schema.Spec, field, msg string) *SchemaViolation {
	return &SchemaViolation{Schema: spec.Name, Errors: []FieldError{{Field: field, Message: msg}}}
}

// extractJSON strips a surrounding markdown code fence.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}

	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```JSON")
	raw = strings.TrimPrefix(raw, "```")
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}
