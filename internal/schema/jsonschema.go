package schema

// JSONSchema renders the spec as a JSON Schema (draft-04 compatible) document suitable for
// gojsonschema.NewGoLoader.
func (s *Spec) JSONSchema() map[string]any {
	doc := objectSchema(s.Fields)
	doc["$schema"] = "http://json-schema.org/draft-04/schema#"
	doc["title"] = s.Name
	return doc
}

func objectSchema(fields []Field) map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]any, 0, len(fields))

	for _, f := range fields {
		properties[f.Name] = fieldSchema(f)
		if !f.Optional {
			required = append(required, f.Name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func fieldSchema(f Field) map[string]any {
	switch f.Kind {
	case KindObject:
		return objectSchema(f.Fields)
	case KindRecordList:
		doc := map[string]any{
			"type":  "array",
			"items": objectSchema(f.Fields),
		}
		if f.MinItems > 0 {
			doc["minItems"] = f.MinItems
		}
		if f.MaxItems > 0 {
			doc["maxItems"] = f.MaxItems
		}
		return doc
	case KindMetric:
		detailed := objectSchema([]Field{
			{Name: "score", Kind: KindScalar, Type: TypeNumber, Bounded: f.Bounded, Minimum: f.Minimum, Maximum: f.Maximum},
			{Name: "positive", Kind: KindScalar, Type: TypeStringList},
			{Name: "negative", Kind: KindScalar, Type: TypeStringList, Optional: true},
		})
		return map[string]any{
			"oneOf": []any{numberSchema(f), detailed},
		}
	default:
		switch f.Type {
		case TypeNumber:
			return numberSchema(f)
		case TypeStringList:
			return map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			}
		default:
			return map[string]any{"type": "string"}
		}
	}
}

func numberSchema(f Field) map[string]any {
	doc := map[string]any{"type": "number"}
	if f.Bounded {
		doc["minimum"] = f.Minimum
		doc["maximum"] = f.Maximum
	}
	return doc
}
