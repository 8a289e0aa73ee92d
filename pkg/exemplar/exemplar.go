// Package exemplar derives a single representative "example value" from a
// set of schemaless documents that share a type.
//
// The example holds every field seen in any document, with one
// representative value per field. Numeric fields widen to the first
// non-32-bit-integer observed. Fields whose values disagree on type are
// reported to a Reporter and left out of the example. Nested objects,
// including objects inside arrays, are merged recursively.
package exemplar

import (
	"github.com/usestring/exemplar-mcp/pkg/document"
)

// Infer merges docs into an example object. typeLabel prefixes conflict
// selectors; an empty label leaves top-level selectors bare. A nil reporter
// discards conflicts.
//
// Infer never mutates docs and is deterministic for a given input order.
func Infer(docs []*document.Object, typeLabel string, r Reporter, opts ...Option) *document.Object {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if r == nil {
		r = NopReporter{}
	}
	m := &merger{settings: s, reporter: r}
	return m.mergeObject(document.Values(docs), typeLabel, s.ignored, 0)
}
