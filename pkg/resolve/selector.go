package resolve

import (
	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/spec"
)

// selectVariant picks the example to emit for a response. It returns
// (nil, false) when the response declares no examples, deferring to schema
// generation. Once at least one variant exists, selection is total: a
// selector query value picks the variant with that exact, case-sensitive
// name; an absent or unmatched value falls back to the default variant,
// else the first in declaration order.
//
// Selection is a pure function of the query value and the declared
// variants; there is no randomness here.
func selectVariant(rs *spec.ResponseSpec, query map[string]string, selectorParam string) (*document.Value, bool) {
	if !rs.HasExamples() {
		return nil, false
	}

	if selectorParam != "" {
		if want, ok := query[selectorParam]; ok {
			for i := range rs.Variants {
				if rs.Variants[i].Name == want {
					return rs.Variants[i].Value, true
				}
			}
		}
	}

	return rs.DefaultVariant().Value, true
}
