package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantErr    bool
		wantParams int
		wantString string
	}{
		{name: "pure literal", path: "/users", wantParams: 0, wantString: "/users"},
		{name: "single param", path: "/users/{id}", wantParams: 1, wantString: "/users/{id}"},
		{name: "two params", path: "/users/{id}/orders/{orderId}", wantParams: 2, wantString: "/users/{id}/orders/{orderId}"},
		{name: "root", path: "/", wantParams: 0, wantString: "/"},
		{name: "trailing slash normalized", path: "/users/", wantParams: 0, wantString: "/users"},
		{name: "unmatched open brace", path: "/users/{id", wantErr: true},
		{name: "unmatched close brace", path: "/users/id}", wantErr: true},
		{name: "brace mid segment", path: "/us{er}s/x", wantErr: true},
		{name: "empty braces", path: "/users/{}", wantErr: true},
		{name: "duplicate param", path: "/users/{id}/friends/{id}", wantErr: true},
		{name: "nested brace", path: "/users/{{id}}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedTemplate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantParams, tmpl.Params())
			assert.Equal(t, tt.wantString, tmpl.String())
		})
	}
}

func TestTemplateMatch(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		path       string
		wantOK     bool
		wantParams map[string]string
	}{
		{
			name:       "literal match",
			template:   "/users",
			path:       "/users",
			wantOK:     true,
			wantParams: map[string]string{},
		},
		{
			name:       "param binding",
			template:   "/users/{id}",
			path:       "/users/123",
			wantOK:     true,
			wantParams: map[string]string{"id": "123"},
		},
		{
			name:       "multiple bindings",
			template:   "/users/{id}/orders/{orderId}",
			path:       "/users/42/orders/oc-9",
			wantOK:     true,
			wantParams: map[string]string{"id": "42", "orderId": "oc-9"},
		},
		{
			name:     "segment count mismatch short",
			template: "/users/{id}",
			path:     "/users",
			wantOK:   false,
		},
		{
			name:     "segment count mismatch long",
			template: "/users/{id}",
			path:     "/users/1/extra",
			wantOK:   false,
		},
		{
			name:     "literal mismatch",
			template: "/users/{id}",
			path:     "/pets/1",
			wantOK:   false,
		},
		{
			name:       "trailing slash on request",
			template:   "/users/{id}",
			path:       "/users/7/",
			wantOK:     true,
			wantParams: map[string]string{"id": "7"},
		},
		{
			name:       "root template",
			template:   "/",
			path:       "/",
			wantOK:     true,
			wantParams: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.template)
			require.NoError(t, err)

			params, ok := tmpl.Match(SplitPath(tt.path))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantParams, params)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath(""))
	assert.Nil(t, SplitPath("/"))
	assert.Equal(t, []string{"users"}, SplitPath("/users"))
	assert.Equal(t, []string{"users"}, SplitPath("/users/"))
	assert.Equal(t, []string{"users", "1"}, SplitPath("/users/1"))
	// An interior double slash yields an empty segment, which only literals
	// can match.
	assert.Equal(t, []string{"users", "", "x"}, SplitPath("/users//x"))
}

func mustTemplates(t *testing.T, paths ...string) []Template {
	t.Helper()
	out := make([]Template, len(paths))
	for i, p := range paths {
		tmpl, err := ParseTemplate(p)
		require.NoError(t, err)
		out[i] = tmpl
	}
	return out
}

func TestMatchAllPrefersLiteral(t *testing.T) {
	templates := mustTemplates(t, "/users/{id}", "/users/me")

	got := MatchAll("/users/me", templates)
	require.Len(t, got, 2)
	// The literal template wins even though it was declared second.
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 0, got[1].Index)
	assert.Equal(t, map[string]string{"id": "me"}, got[1].Params)
}

func TestMatchAllDeclarationOrderTieBreak(t *testing.T) {
	templates := mustTemplates(t, "/a/{x}/c", "/a/b/{y}")

	// Both templates have one parameter and match /a/b/c; declaration order
	// decides.
	got := MatchAll("/a/b/c", templates)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, map[string]string{"x": "b"}, got[0].Params)
}

func TestMatchAllNoMatch(t *testing.T) {
	templates := mustTemplates(t, "/users", "/users/{id}")
	assert.Empty(t, MatchAll("/pets", templates))
	assert.Empty(t, MatchAll("/users/1/extra", templates))
}

func TestMatchAllParamRequiresNonEmptySegment(t *testing.T) {
	templates := mustTemplates(t, "/users/{id}")
	assert.Empty(t, MatchAll("/users//", templates))
}
