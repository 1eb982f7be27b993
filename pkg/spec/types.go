package spec

import (
	"time"

	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/route"
)

// Document is the normalized in-memory form of a loaded specification.
// It is immutable after Build and shared read-only by all request handlers.
type Document struct {
	// Title and Version come from the info block, for startup logging.
	Title   string
	Version string

	// Paths holds every declared path in declaration order.
	Paths []*Path
}

// Templates returns the path templates in declaration order.
func (d *Document) Templates() []route.Template {
	out := make([]route.Template, len(d.Paths))
	for i, p := range d.Paths {
		out[i] = p.Template
	}
	return out
}

// OperationCount returns the total number of declared operations.
func (d *Document) OperationCount() int {
	n := 0
	for _, p := range d.Paths {
		n += len(p.Operations)
	}
	return n
}

// Path groups the operations declared under one path template.
type Path struct {
	Template   route.Template
	Operations []*Operation
}

// Operation returns the operation for an HTTP method, or nil when the path
// does not declare it. Method comparison is exact; callers pass the
// canonical uppercase form.
func (p *Path) Operation(method string) *Operation {
	for _, op := range p.Operations {
		if op.Method == method {
			return op
		}
	}
	return nil
}

// Methods returns the HTTP methods declared for this path, in declaration
// order.
func (p *Path) Methods() []string {
	out := make([]string, len(p.Operations))
	for i, op := range p.Operations {
		out[i] = op.Method
	}
	return out
}

// Operation is one (path template, HTTP method) pair with its declared
// responses and per-route behavior extensions.
type Operation struct {
	Method   string
	Template route.Template

	// SelectorParam names the query parameter used for variant selection.
	// Empty means the default/first variant is always used.
	SelectorParam string

	// Delay is the configured response latency for this route, zero when
	// unset. The transport layer performs the actual suspension.
	Delay time.Duration

	// Flaky is the configured failure injection for this route, nil when
	// unset.
	Flaky *Flaky

	// Responses holds every declared status-code response in declaration
	// order.
	Responses []*ResponseSpec
}

// preferredStatuses is the order in which success responses are tried when
// an operation declares several.
var preferredStatuses = []int{200, 201, 202, 204}

// PrimaryResponse picks the response a mock resolution emits: 200, 201, 202
// or 204 when declared, else the first 2xx, else the first declared
// response. Returns nil when the operation declares no responses.
func (op *Operation) PrimaryResponse() *ResponseSpec {
	if len(op.Responses) == 0 {
		return nil
	}
	for _, want := range preferredStatuses {
		for _, rs := range op.Responses {
			if rs.Status == want {
				return rs
			}
		}
	}
	for _, rs := range op.Responses {
		if rs.Status >= 200 && rs.Status < 300 {
			return rs
		}
	}
	return op.Responses[0]
}

// ResponseSpec is one declared response: a status code, a content type, and
// a body source. Examples take precedence over the schema; the schema is
// used only when no variants exist.
type ResponseSpec struct {
	Status      int
	ContentType string

	// SelectorParam overrides the operation-level selector parameter when a
	// media type declares its own.
	SelectorParam string

	// Variants holds the named examples in declaration order.
	Variants []Variant

	// Schema drives value generation when no variants exist.
	Schema *SchemaNode
}

// HasExamples reports whether the response declares at least one example.
func (rs *ResponseSpec) HasExamples() bool { return len(rs.Variants) > 0 }

// DefaultVariant returns the variant explicitly marked default, else the
// first in declaration order. Returns nil only when the response has no
// variants at all.
func (rs *ResponseSpec) DefaultVariant() *Variant {
	if len(rs.Variants) == 0 {
		return nil
	}
	for i := range rs.Variants {
		if rs.Variants[i].Default {
			return &rs.Variants[i]
		}
	}
	return &rs.Variants[0]
}

// Variant is one named example among several declared for a response.
type Variant struct {
	Name    string
	Value   *document.Value
	Default bool
}

// Flaky configures probabilistic failure substitution for a route.
type Flaky struct {
	// Probability is the chance in [0, 1] that a resolution is replaced
	// with the failure response.
	Probability float64

	// Status is the failure status code.
	Status int

	// Body is the failure body; nil means the transport writes its default
	// error text.
	Body *document.Value
}

// Schema kinds. Kind is kept as the raw declared string so unrecognized
// kinds surface as generation errors rather than silently producing null.
const (
	SchemaString  = "string"
	SchemaInteger = "integer"
	SchemaNumber  = "number"
	SchemaBoolean = "boolean"
	SchemaArray   = "array"
	SchemaObject  = "object"
	SchemaEnum    = "enum"
)

// SchemaNode is a recursive JSON Schema subset: one kind plus kind-specific
// attributes. Object properties and enum literals keep declaration order.
type SchemaNode struct {
	Kind       string
	Format     string
	Items      *SchemaNode
	Properties []Property
	Enum       []*document.Value
}

// Property is one declared object property.
type Property struct {
	Name   string
	Schema *SchemaNode
}
