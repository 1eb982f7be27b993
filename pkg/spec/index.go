package spec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/route"
)

// Load-time errors. All of them abort startup.
var (
	// ErrEmptySpec is returned when the document declares zero operations.
	ErrEmptySpec = errors.New("specification declares no operations")

	// ErrMalformedPath is returned when a path key contains unmatched braces
	// or a duplicate parameter name. It aliases the route package sentinel
	// so errors.Is works against either.
	ErrMalformedPath = route.ErrMalformedTemplate

	// ErrNotMapping is returned when the specification root is not a
	// mapping.
	ErrNotMapping = errors.New("specification root must be a mapping")
)

// Extension keys recognized by the indexer.
const (
	extExampleParam = "x-mirage-example-param"
	extDefault      = "x-mirage-default"
	extDelay        = "x-mirage-delay"
	extFlaky        = "x-mirage-flaky"
)

// methodKeys is the set of HTTP method keys recognized under a path item,
// in the order operations are collected.
var methodKeys = []string{"get", "post", "put", "delete", "patch", "head", "options"}

// Build indexes a generic parsed document into an immutable Document. All
// structural errors are reported here, once, at startup; Build performs no
// I/O.
func Build(doc *document.Value) (*Document, error) {
	if doc == nil || doc.Kind != document.KindMapping {
		return nil, ErrNotMapping
	}

	d := &Document{}
	if info, ok := doc.Get("info"); ok {
		if title, ok := info.Get("title"); ok {
			d.Title, _ = title.AsString()
		}
		if version, ok := info.Get("version"); ok {
			d.Version, _ = version.AsString()
		}
	}

	paths, ok := doc.Get("paths")
	if ok && paths.Kind == document.KindMapping {
		for _, entry := range paths.Map {
			p, err := buildPath(entry.Key, entry.Value)
			if err != nil {
				return nil, err
			}
			d.Paths = append(d.Paths, p)
		}
	}

	if d.OperationCount() == 0 {
		return nil, ErrEmptySpec
	}
	return d, nil
}

func buildPath(key string, node *document.Value) (*Path, error) {
	tmpl, err := route.ParseTemplate(key)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", key, err)
	}

	p := &Path{Template: tmpl}
	for _, method := range methodKeys {
		opNode, ok := node.Get(method)
		if !ok || opNode.Kind != document.KindMapping {
			continue
		}
		op, err := buildOperation(strings.ToUpper(method), tmpl, opNode)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", key, err)
		}
		p.Operations = append(p.Operations, op)
	}
	return p, nil
}

func buildOperation(method string, tmpl route.Template, node *document.Value) (*Operation, error) {
	op := &Operation{Method: method, Template: tmpl}

	if v, ok := node.Get(extExampleParam); ok {
		op.SelectorParam, _ = v.AsString()
	}

	if v, ok := node.Get(extDelay); ok {
		s, _ := v.AsString()
		delay, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid %s %q: %w", method, extDelay, s, err)
		}
		if delay < 0 {
			return nil, fmt.Errorf("%s: negative %s %q", method, extDelay, s)
		}
		op.Delay = delay
	}

	if v, ok := node.Get(extFlaky); ok {
		flaky, err := buildFlaky(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		op.Flaky = flaky
	}

	if responses, ok := node.Get("responses"); ok && responses.Kind == document.KindMapping {
		for _, entry := range responses.Map {
			rs := buildResponse(parseStatusCode(entry.Key), entry.Value)
			op.Responses = append(op.Responses, rs)
		}
	}

	return op, nil
}

func buildFlaky(node *document.Value) (*Flaky, error) {
	if node.Kind != document.KindMapping {
		return nil, fmt.Errorf("%s must be a mapping", extFlaky)
	}

	flaky := &Flaky{Status: 500}
	if v, ok := node.Get("probability"); ok {
		p, ok := v.AsFloat()
		if !ok {
			return nil, fmt.Errorf("%s: probability must be a number", extFlaky)
		}
		flaky.Probability = clamp01(p)
	}
	if v, ok := node.Get("status"); ok {
		s, ok := v.AsInt()
		if !ok || s < 100 || s > 599 {
			return nil, fmt.Errorf("%s: status must be a valid HTTP status code", extFlaky)
		}
		flaky.Status = int(s)
	}
	if v, ok := node.Get("body"); ok {
		flaky.Body = v
	}
	return flaky, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// buildResponse resolves one declared response into a ResponseSpec. The
// media type is chosen by preferring application/json, falling back to the
// first declared content type. Named examples keep declaration order; a
// singular example joins the variant map under the name "default".
func buildResponse(status int, node *document.Value) *ResponseSpec {
	rs := &ResponseSpec{Status: status, ContentType: "text/plain"}

	content, ok := node.Get("content")
	if !ok || content.Kind != document.KindMapping || len(content.Map) == 0 {
		return rs
	}

	contentType := content.Map[0].Key
	media := content.Map[0].Value
	if v, ok := content.Get("application/json"); ok {
		contentType = "application/json"
		media = v
	}
	rs.ContentType = contentType
	if media == nil || media.Kind != document.KindMapping {
		return rs
	}

	if v, ok := media.Get(extExampleParam); ok {
		rs.SelectorParam, _ = v.AsString()
	}

	if examples, ok := media.Get("examples"); ok && examples.Kind == document.KindMapping {
		for _, entry := range examples.Map {
			rs.Variants = append(rs.Variants, buildVariant(entry.Key, entry.Value))
		}
	}

	if example, ok := media.Get("example"); ok {
		if _, taken := findVariant(rs.Variants, "default"); !taken {
			rs.Variants = append(rs.Variants, Variant{
				Name:    "default",
				Value:   example,
				Default: len(rs.Variants) == 0,
			})
		}
	}

	if schema, ok := media.Get("schema"); ok {
		rs.Schema = buildSchema(schema)
	}

	return rs
}

// buildVariant resolves one named example entry. OpenAPI nests the payload
// under "value"; entries without that wrapper are taken verbatim.
func buildVariant(name string, node *document.Value) Variant {
	v := Variant{Name: name, Value: node}
	if node.Kind == document.KindMapping {
		if payload, ok := node.Get("value"); ok {
			v.Value = payload
		}
		if flag, ok := node.Get(extDefault); ok {
			v.Default, _ = flag.AsBool()
		}
	}
	return v
}

func findVariant(variants []Variant, name string) (*Variant, bool) {
	for i := range variants {
		if variants[i].Name == name {
			return &variants[i], true
		}
	}
	return nil, false
}

// buildSchema converts a schema node into the typed recursive form. Unknown
// or missing type declarations produce a node with an empty kind; the
// generator rejects those when, and only when, generation is invoked.
func buildSchema(node *document.Value) *SchemaNode {
	if node == nil || node.Kind != document.KindMapping {
		return &SchemaNode{}
	}

	if enum, ok := node.Get("enum"); ok && enum.Kind == document.KindSequence {
		return &SchemaNode{Kind: SchemaEnum, Enum: enum.Seq}
	}

	s := &SchemaNode{}
	if t, ok := node.Get("type"); ok {
		s.Kind, _ = t.AsString()
	}
	if f, ok := node.Get("format"); ok {
		s.Format, _ = f.AsString()
	}
	if items, ok := node.Get("items"); ok {
		s.Items = buildSchema(items)
	}
	if props, ok := node.Get("properties"); ok && props.Kind == document.KindMapping {
		for _, entry := range props.Map {
			if entry.Value == nil || entry.Value.Kind != document.KindMapping {
				// Properties with no declared schema are omitted.
				continue
			}
			s.Properties = append(s.Properties, Property{
				Name:   entry.Key,
				Schema: buildSchema(entry.Value),
			})
		}
	}
	return s
}

// parseStatusCode parses a response key into a status code. Non-numeric
// keys such as "default" and out-of-range values resolve to 200.
func parseStatusCode(s string) int {
	code := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 200
		}
		code = code*10 + int(c-'0')
	}
	if code >= 100 && code < 600 {
		return code
	}
	return 200
}
