package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// Route outcomes. Both are expected, non-fatal results the transport layer
// translates into 404 and 405 responses.
var (
	// ErrNoRoute means no template matches the request path shape.
	ErrNoRoute = errors.New("no route matches")

	// ErrMethodNotAllowed means the path matched by shape but no operation
	// exists for the requested method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Schema generation failures. Raised only when generation is actually
// invoked on a malformed node, and surfaced as a server-side resolution
// failure rather than silently downgraded to null.
var (
	// ErrEmptyEnum means an enum schema declares zero values.
	ErrEmptyEnum = errors.New("enum declares no values")

	// ErrUnsupportedKind means a schema node has an unknown or missing kind.
	ErrUnsupportedKind = errors.New("unsupported schema kind")
)

// MethodNotAllowedError carries the methods the matched path shape does
// declare, so the transport can emit an Allow header.
type MethodNotAllowedError struct {
	Method string
	Allow  []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed (allow: %s)", e.Method, strings.Join(e.Allow, ", "))
}

// Is makes errors.Is(err, ErrMethodNotAllowed) hold for this type.
func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}
