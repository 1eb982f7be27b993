package resolve

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/spec"
)

// Fixed representative literals. Generation is deterministic: the same
// schema always yields the same value.
const (
	literalString   = "string"
	literalDateTime = "2025-01-01T00:00:00Z"
	literalDate     = "2025-01-01"
	literalInteger  = int64(123)
	literalNumber   = 123.45
)

// Generate synthesizes a representative value for a schema node. It is
// total for well-formed schemas: recursion depth is bounded by the schema's
// own depth, and every declared property and enum literal is honored in
// declaration order.
func Generate(node *spec.SchemaNode) (*document.Value, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: missing schema", ErrUnsupportedKind)
	}

	switch node.Kind {
	case spec.SchemaString:
		return document.NewString(stringLiteral(node.Format)), nil

	case spec.SchemaInteger:
		return document.NewInt(literalInteger), nil

	case spec.SchemaNumber:
		return document.NewFloat(literalNumber), nil

	case spec.SchemaBoolean:
		return document.NewBool(true), nil

	case spec.SchemaEnum:
		if len(node.Enum) == 0 {
			return nil, ErrEmptyEnum
		}
		return node.Enum[0], nil

	case spec.SchemaArray:
		if node.Items == nil {
			return document.NewSequence(), nil
		}
		item, err := Generate(node.Items)
		if err != nil {
			return nil, err
		}
		return document.NewSequence(item), nil

	case spec.SchemaObject:
		entries := make([]document.Entry, 0, len(node.Properties))
		for _, prop := range node.Properties {
			v, err := Generate(prop.Schema)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", prop.Name, err)
			}
			entries = append(entries, document.Entry{Key: prop.Name, Value: v})
		}
		return document.NewMapping(entries...), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, node.Kind)
	}
}

// stringLiteral picks the fixed literal for a string schema. Unrecognized
// formats fall back to the bare string literal.
func stringLiteral(format string) string {
	switch format {
	case "date-time":
		return literalDateTime
	case "date":
		return literalDate
	case "uuid":
		return uuid.Nil.String()
	default:
		return literalString
	}
}
