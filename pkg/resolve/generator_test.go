package resolve

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/spec"
)

func TestGenerateScalars(t *testing.T) {
	tests := []struct {
		name   string
		schema *spec.SchemaNode
		want   *document.Value
	}{
		{
			name:   "plain string",
			schema: &spec.SchemaNode{Kind: spec.SchemaString},
			want:   document.NewString("string"),
		},
		{
			name:   "date-time format",
			schema: &spec.SchemaNode{Kind: spec.SchemaString, Format: "date-time"},
			want:   document.NewString("2025-01-01T00:00:00Z"),
		},
		{
			name:   "date format",
			schema: &spec.SchemaNode{Kind: spec.SchemaString, Format: "date"},
			want:   document.NewString("2025-01-01"),
		},
		{
			name:   "uuid format",
			schema: &spec.SchemaNode{Kind: spec.SchemaString, Format: "uuid"},
			want:   document.NewString("00000000-0000-0000-0000-000000000000"),
		},
		{
			name:   "unrecognized format falls back",
			schema: &spec.SchemaNode{Kind: spec.SchemaString, Format: "hostname"},
			want:   document.NewString("string"),
		},
		{
			name:   "integer",
			schema: &spec.SchemaNode{Kind: spec.SchemaInteger},
			want:   document.NewInt(123),
		},
		{
			name:   "number",
			schema: &spec.SchemaNode{Kind: spec.SchemaNumber},
			want:   document.NewFloat(123.45),
		},
		{
			name:   "boolean",
			schema: &spec.SchemaNode{Kind: spec.SchemaBoolean},
			want:   document.NewBool(true),
		},
		{
			name: "enum picks first literal",
			schema: &spec.SchemaNode{Kind: spec.SchemaEnum, Enum: []*document.Value{
				document.NewString("available"),
				document.NewString("sold"),
			}},
			want: document.NewString("available"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.schema)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateObjectKeepsDeclarationOrder(t *testing.T) {
	schema := &spec.SchemaNode{
		Kind: spec.SchemaObject,
		Properties: []spec.Property{
			{Name: "id", Schema: &spec.SchemaNode{Kind: spec.SchemaInteger}},
			{Name: "name", Schema: &spec.SchemaNode{Kind: spec.SchemaString}},
		},
	}

	got, err := Generate(schema)
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `{"id":123,"name":"string"}`, string(data))
}

func TestGenerateNested(t *testing.T) {
	schema := &spec.SchemaNode{
		Kind: spec.SchemaArray,
		Items: &spec.SchemaNode{
			Kind: spec.SchemaObject,
			Properties: []spec.Property{
				{Name: "tags", Schema: &spec.SchemaNode{
					Kind:  spec.SchemaArray,
					Items: &spec.SchemaNode{Kind: spec.SchemaString},
				}},
				{Name: "active", Schema: &spec.SchemaNode{Kind: spec.SchemaBoolean}},
			},
		},
	}

	got, err := Generate(schema)
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `[{"tags":["string"],"active":true}]`, string(data))
}

func TestGenerateEmptyShapes(t *testing.T) {
	obj, err := Generate(&spec.SchemaNode{Kind: spec.SchemaObject})
	require.NoError(t, err)
	data, _ := json.Marshal(obj)
	assert.Equal(t, `{}`, string(data))

	arr, err := Generate(&spec.SchemaNode{Kind: spec.SchemaArray})
	require.NoError(t, err)
	data, _ = json.Marshal(arr)
	assert.Equal(t, `[]`, string(data))
}

func TestGenerateDeterministic(t *testing.T) {
	schema := &spec.SchemaNode{
		Kind: spec.SchemaObject,
		Properties: []spec.Property{
			{Name: "when", Schema: &spec.SchemaNode{Kind: spec.SchemaString, Format: "date-time"}},
			{Name: "count", Schema: &spec.SchemaNode{Kind: spec.SchemaInteger}},
		},
	}

	first, err := Generate(schema)
	require.NoError(t, err)
	second, err := Generate(schema)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(&spec.SchemaNode{Kind: spec.SchemaEnum})
	assert.ErrorIs(t, err, ErrEmptyEnum)

	_, err = Generate(&spec.SchemaNode{Kind: "blob"})
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = Generate(&spec.SchemaNode{})
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = Generate(nil)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	// A malformed property schema propagates with context.
	_, err = Generate(&spec.SchemaNode{
		Kind: spec.SchemaObject,
		Properties: []spec.Property{
			{Name: "bad", Schema: &spec.SchemaNode{Kind: "mystery"}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	assert.Contains(t, err.Error(), `"bad"`)
}

// TestGeneratedValueValidatesAgainstSchema checks the generator's output
// against the source schema with a real JSON Schema validator.
func TestGeneratedValueValidatesAgainstSchema(t *testing.T) {
	schemaJSON := `{
		"type": "object",
		"properties": {
			"id": {"type": "integer"},
			"name": {"type": "string"},
			"score": {"type": "number"},
			"active": {"type": "boolean"},
			"status": {"enum": ["available", "sold"]},
			"tags": {"type": "array", "items": {"type": "string"}},
			"created": {"type": "string", "format": "date-time"}
		},
		"required": ["id", "name", "score", "active", "status", "tags", "created"]
	}`

	node := &spec.SchemaNode{
		Kind: spec.SchemaObject,
		Properties: []spec.Property{
			{Name: "id", Schema: &spec.SchemaNode{Kind: spec.SchemaInteger}},
			{Name: "name", Schema: &spec.SchemaNode{Kind: spec.SchemaString}},
			{Name: "score", Schema: &spec.SchemaNode{Kind: spec.SchemaNumber}},
			{Name: "active", Schema: &spec.SchemaNode{Kind: spec.SchemaBoolean}},
			{Name: "status", Schema: &spec.SchemaNode{Kind: spec.SchemaEnum, Enum: []*document.Value{
				document.NewString("available"),
				document.NewString("sold"),
			}}},
			{Name: "tags", Schema: &spec.SchemaNode{
				Kind:  spec.SchemaArray,
				Items: &spec.SchemaNode{Kind: spec.SchemaString},
			}},
			{Name: "created", Schema: &spec.SchemaNode{Kind: spec.SchemaString, Format: "date-time"}},
		},
	}

	generated, err := Generate(node)
	require.NoError(t, err)

	data, err := json.Marshal(generated)
	require.NoError(t, err)
	var decoded any
	require.NoError(t, json.Unmarshal(data, &decoded))

	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("schema.json", strings.NewReader(schemaJSON)))
	compiled, err := compiler.Compile("schema.json")
	require.NoError(t, err)

	assert.NoError(t, compiled.Validate(decoded))
}
