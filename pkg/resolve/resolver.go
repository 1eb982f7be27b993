package resolve

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/route"
	"github.com/getmockd/mirage/pkg/spec"
)

// Request is the normalized incoming-request descriptor produced by the
// transport layer. Query holds one value per parameter name, last-wins on
// duplicates.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
}

// Response is the descriptor the transport layer serializes. The transport
// honors Delay before writing and substitutes Failure when present.
type Response struct {
	Status      int
	ContentType string
	Body        *document.Value

	// Route is the matched path template, for access logging.
	Route string

	// Delay is how long the transport should wait before writing.
	Delay time.Duration

	// Failure, when non-nil, replaces the resolved status and body.
	Failure *Failure
}

// Failure is a spec-configured flaky outcome. It is not an error: it is an
// intentional success-path result with a non-2xx status.
type Failure struct {
	Status int
	Body   *document.Value
}

// RandSource supplies the uniform draw for flaky-failure sampling. It is
// the only non-determinism in the engine; tests inject a fixed source.
type RandSource interface {
	Float64() float64
}

// lockedSource guards a rand.Rand so one source can be shared across
// concurrent resolutions.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Resolver is the mock resolution engine. It holds only immutable state
// plus the random source, so Resolve is safe to call from any number of
// goroutines.
type Resolver struct {
	doc          *spec.Document
	templates    []route.Template
	rand         RandSource
	defaultDelay time.Duration
	defaultFlaky *spec.Flaky
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRandSource sets the random source used for flaky-failure sampling.
func WithRandSource(src RandSource) Option {
	return func(r *Resolver) {
		if src != nil {
			r.rand = src
		}
	}
}

// WithDefaultDelay sets a delay applied to operations that declare none.
func WithDefaultDelay(d time.Duration) Option {
	return func(r *Resolver) { r.defaultDelay = d }
}

// WithDefaultFlaky sets failure injection applied to operations that
// declare none. Per-route configuration preempts this default.
func WithDefaultFlaky(f *spec.Flaky) Option {
	return func(r *Resolver) { r.defaultFlaky = f }
}

// New creates a Resolver over an indexed specification.
func New(doc *spec.Document, opts ...Option) *Resolver {
	r := &Resolver{
		doc:       doc,
		templates: doc.Templates(),
		rand:      &lockedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs one full resolution: path match, operation lookup, variant
// selection or schema generation, then response synthesis. Route and schema
// failures are return values; Resolve never panics or blocks.
func (r *Resolver) Resolve(req Request) (*Response, error) {
	candidates := route.MatchAll(req.Path, r.templates)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoRoute, req.Method, req.Path)
	}

	// Walk shape-matching templates in specificity order and take the first
	// that declares the requested method.
	var op *spec.Operation
	for _, c := range candidates {
		if found := r.doc.Paths[c.Index].Operation(req.Method); found != nil {
			op = found
			break
		}
	}
	if op == nil {
		return nil, &MethodNotAllowedError{
			Method: req.Method,
			Allow:  r.allowedMethods(candidates),
		}
	}

	rs := op.PrimaryResponse()
	if rs == nil {
		// An operation with no declared responses still resolves: empty
		// body, 200.
		rs = &spec.ResponseSpec{Status: 200, ContentType: "text/plain"}
	}

	body, err := r.resolveBody(op, rs, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	return r.synthesize(op, rs, body), nil
}

// resolveBody picks the body source: examples win over the schema; the
// schema is a fallback only when no examples exist.
func (r *Resolver) resolveBody(op *spec.Operation, rs *spec.ResponseSpec, query map[string]string) (*document.Value, error) {
	selector := rs.SelectorParam
	if selector == "" {
		selector = op.SelectorParam
	}

	if body, ok := selectVariant(rs, query, selector); ok {
		return body, nil
	}
	if rs.Schema != nil {
		return Generate(rs.Schema)
	}
	return nil, nil
}

// synthesize combines the chosen status, content type and body into a
// response descriptor, marking configured latency and drawing the flaky
// sample. Actual suspension happens in the transport layer.
func (r *Resolver) synthesize(op *spec.Operation, rs *spec.ResponseSpec, body *document.Value) *Response {
	resp := &Response{
		Status:      rs.Status,
		ContentType: rs.ContentType,
		Body:        body,
		Route:       op.Template.String(),
		Delay:       op.Delay,
	}
	if resp.Delay == 0 {
		resp.Delay = r.defaultDelay
	}

	flaky := op.Flaky
	if flaky == nil {
		flaky = r.defaultFlaky
	}
	if flaky != nil && flaky.Probability > 0 && r.rand.Float64() < flaky.Probability {
		resp.Failure = &Failure{Status: flaky.Status, Body: flaky.Body}
	}

	return resp
}

// allowedMethods collects the methods declared across every shape-matching
// template, most specific first, without duplicates.
func (r *Resolver) allowedMethods(candidates []route.Candidate) []string {
	seen := make(map[string]bool)
	var allow []string
	for _, c := range candidates {
		for _, m := range r.doc.Paths[c.Index].Methods() {
			if !seen[m] {
				seen[m] = true
				allow = append(allow, m)
			}
		}
	}
	return allow
}
