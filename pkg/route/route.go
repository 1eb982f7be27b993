// Package route provides path template parsing and request path matching.
// Templates are ordered sequences of literal and {param} segments; matching
// is segment-wise with exact literal comparison, and ties between templates
// are broken by specificity (fewest parameters) then declaration order.
package route

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedTemplate is wrapped by all template parse errors.
var ErrMalformedTemplate = errors.New("malformed path template")

type segment struct {
	literal string
	param   string // non-empty for {name} segments
}

// Template is a parsed path template such as /users/{id}/orders.
// A template with zero parameters is a pure literal. Parameter names are
// unique within one template.
type Template struct {
	raw      string
	segments []segment
	params   int
}

// ParseTemplate parses a path string into a Template. It fails when a
// segment contains unmatched braces or when a parameter name repeats within
// the template.
func ParseTemplate(path string) (Template, error) {
	parts := SplitPath(path)
	t := Template{
		raw:      "/" + strings.Join(parts, "/"),
		segments: make([]segment, 0, len(parts)),
	}

	seen := make(map[string]bool)
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") && len(part) > 2 {
			name := part[1 : len(part)-1]
			if strings.ContainsAny(name, "{}") {
				return Template{}, fmt.Errorf("%w: nested brace in segment %q of %q", ErrMalformedTemplate, part, path)
			}
			if seen[name] {
				return Template{}, fmt.Errorf("%w: duplicate parameter %q in %q", ErrMalformedTemplate, name, path)
			}
			seen[name] = true
			t.segments = append(t.segments, segment{param: name})
			t.params++
			continue
		}
		if strings.ContainsAny(part, "{}") {
			return Template{}, fmt.Errorf("%w: unmatched brace in segment %q of %q", ErrMalformedTemplate, part, path)
		}
		t.segments = append(t.segments, segment{literal: part})
	}

	return t, nil
}

// String returns the normalized template path.
func (t Template) String() string { return t.raw }

// Params returns the number of parameter placeholders in the template.
func (t Template) Params() int { return t.params }

// Match checks the template against pre-split request path segments. On a
// match it returns the bound parameter values; templates with no parameters
// return an empty, non-nil map.
func (t Template) Match(parts []string) (map[string]string, bool) {
	if len(parts) != len(t.segments) {
		return nil, false
	}
	params := make(map[string]string, t.params)
	for i, seg := range t.segments {
		if seg.param != "" {
			// A parameter binds any non-empty segment.
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// SplitPath splits a request path on "/", dropping the single empty segment
// produced by a leading or trailing slash. "/" and "" both yield zero
// segments.
func SplitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Candidate is one template that matched a request path.
type Candidate struct {
	// Index is the position of the template in the declaration-ordered slice
	// passed to MatchAll.
	Index int

	// Params holds the extracted path parameter bindings.
	Params map[string]string
}

// MatchAll returns every template that matches the request path, ordered by
// specificity: fewest parameter placeholders first, declaration order as the
// tie-break. The literal /users/me therefore always outranks /users/{id}.
func MatchAll(path string, templates []Template) []Candidate {
	parts := SplitPath(path)

	var out []Candidate
	for i, t := range templates {
		if params, ok := t.Match(parts); ok {
			out = append(out, Candidate{Index: i, Params: params})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return templates[out[a].Index].Params() < templates[out[b].Index].Params()
	})
	return out
}
