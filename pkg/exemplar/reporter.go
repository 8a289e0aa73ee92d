package exemplar

import (
	"github.com/usestring/exemplar-mcp/pkg/document"
)

// Candidate is one document's observation of a field: the raw value, its
// tag and the document it came from.
type Candidate struct {
	Value  document.Value
	Type   TypeTag
	Parent *document.Object
}

// Reporter receives type conflicts. Implementations must not panic; the
// merge continues after every report.
type Reporter interface {
	AddConflict(selector string, candidates []Candidate)
}

// DepthReporter is implemented by reporters that also want to hear about
// nested objects skipped by the depth limit.
type DepthReporter interface {
	Reporter
	AddTruncated(selector string, depth int)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(selector string, candidates []Candidate)

// AddConflict calls f.
func (f ReporterFunc) AddConflict(selector string, candidates []Candidate) {
	f(selector, candidates)
}

// NopReporter discards conflicts.
type NopReporter struct{}

// AddConflict does nothing.
func (NopReporter) AddConflict(string, []Candidate) {}
