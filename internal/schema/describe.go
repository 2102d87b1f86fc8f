package schema

import (
	"fmt"
	"strings"
)

// FormatInstructions renders the natural-language format block appended to model instructions.
func (s *Spec) FormatInstructions() string {
	var sb strings.Builder

	sb.WriteString("Your entire response MUST be a single, valid JSON object with the following fields")
	sb.WriteString(" and no other text, comments or markdown:\n")
	writeFields(&sb, s.Fields, 0)
	sb.WriteString("\nEvery field above is required unless marked optional.")
	sb.WriteString(" Lists with a required number of entries are checked and a response with any other count is rejected.\n")

	return sb.String()
}

func writeFields(sb *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		fmt.Fprintf(sb, "%s- %q (%s)", indent, f.Name, typeHint(f))
		if f.Optional {
			sb.WriteString(" optional")
		}
		if f.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(f.Description)
		}
		sb.WriteString("\n")

		switch f.Kind {
		case KindObject:
			writeFields(sb, f.Fields, depth+1)
		case KindRecordList:
			fmt.Fprintf(sb, "%s  Each entry is an object with:\n", indent)
			writeFields(sb, f.Fields, depth+2)
		}
	}
}

func typeHint(f Field) string {
	switch f.Kind {
	case KindObject:
		return "object"
	case KindRecordList:
		return "list of objects, " + cardinality(f)
	case KindMetric:
		return "either a number" + bounds(f) + ` or an object {"score": number` + bounds(f) +
			`, "positive": list of strings, "negative": list of strings}`
	}

	switch f.Type {
	case TypeNumber:
		return "number" + bounds(f)
	case TypeStringList:
		return "list of strings"
	default:
		return "string"
	}
}

func cardinality(f Field) string {
	if n, ok := f.Exactly(); ok {
		return fmt.Sprintf("exactly %d entries", n)
	}
	switch {
	case f.MinItems > 0 && f.MaxItems > 0:
		return fmt.Sprintf("between %d and %d entries", f.MinItems, f.MaxItems)
	case f.MinItems > 0:
		return fmt.Sprintf("at least %d entries", f.MinItems)
	case f.MaxItems > 0:
		return fmt.Sprintf("at most %d entries", f.MaxItems)
	default:
		return "any number of entries"
	}
}

func bounds(f Field) string {
	if !f.Bounded {
		return ""
	}
	return fmt.Sprintf(" from %g to %g", f.Minimum, f.Maximum)
}
