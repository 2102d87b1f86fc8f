// Package schema describes the shape of structured model output. A Spec is used twice: once to
// tell the model what to produce, and once to validate what it actually produced.
package schema

import "fmt"

// Kind is the structural kind of a field.
type Kind int

const (
	// KindScalar is a leaf value; its concrete type is given by Field.Type.
	KindScalar Kind = iota
	// KindObject is a nested object described by Field.Fields.
	KindObject
	// KindRecordList is a list of objects, each described by Field.Fields.
	KindRecordList
	// KindMetric is either a bare number or an object {score, positive, negative}.
	KindMetric
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindRecordList:
		return "list"
	case KindMetric:
		return "metric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Type is the concrete type of a scalar field.
type Type int

const (
	TypeString Type = iota
	TypeNumber
	TypeStringList
)

// Field describes a single output field.
type Field struct {
	Name        string
	Description string
	Kind        Kind
	Type        Type

	// Fields describes the members of KindObject and the records of KindRecordList.
	Fields []Field

	// MinItems and MaxItems bound KindRecordList cardinality. Zero means unbounded.
	MinItems int
	MaxItems int

	// Minimum and Maximum bound TypeNumber scalars and metric scores when Bounded is set.
	Bounded bool
	Minimum float64
	Maximum float64

	// Optional fields may be omitted by the model.
	Optional bool
}

// Exactly reports the exact cardinality required of a record list, if any.
func (f Field) Exactly() (int, bool) {
	if f.Kind != KindRecordList || f.MinItems == 0 || f.MinItems != f.MaxItems {
		return 0, false
	}
	return f.MinItems, true
}

// Spec is an ordered set of top-level fields. Treat it as immutable once built.
type Spec struct {
	Name   string
	Fields []Field
}

// New builds a Spec and checks it for obvious construction mistakes.
func New(name string, fields ...Field) (*Spec, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %s: at least one field is required", name)
	}
	if err := checkFields(name, fields); err != nil {
		return nil, err
	}

	copied := make([]Field, len(fields))
	copy(copied, fields)

	return &Spec{Name: name, Fields: copied}, nil
}

// MustNew is New for package-level specs that are known to be valid.
func MustNew(name string, fields ...Field) *Spec {
	spec, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return spec
}

// Field returns the top-level field with the given name.
func (s *Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func checkFields(path string, fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("schema %s: field name is required", path)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema %s: duplicate field %q", path, f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Kind {
		case KindObject, KindRecordList:
			if len(f.Fields) == 0 {
				return fmt.Errorf("schema %s.%s: %s field needs members", path, f.Name, f.Kind)
			}
			if f.MaxItems != 0 && f.MaxItems < f.MinItems {
				return fmt.Errorf("schema %s.%s: max items below min items", path, f.Name)
			}
			if err := checkFields(path+"."+f.Name, f.Fields); err != nil {
				return err
			}
		case KindScalar, KindMetric:
			if len(f.Fields) != 0 {
				return fmt.Errorf("schema %s.%s: %s field cannot have members", path, f.Name, f.Kind)
			}
		default:
			return fmt.Errorf("schema %s.%s: unknown kind %s", path, f.Name, f.Kind)
		}

		if f.Bounded && f.Maximum < f.Minimum {
			return fmt.Errorf("schema %s.%s: maximum below minimum", path, f.Name)
		}
	}
	return nil
}
