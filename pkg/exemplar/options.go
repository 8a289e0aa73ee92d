package exemplar

import (
	"github.com/usestring/exemplar-mcp/pkg/document"
)

// Defaults used when no option overrides them.
const (
	DefaultLinkMarker = "___NODE"
	DefaultMaxDepth   = 64
)

// Option configures a call to Infer.
type Option func(*settings)

type settings struct {
	ignored    map[string]struct{}
	classifier Classifier
	isInt32    func(float64) bool
	linkMarker string
	maxDepth   int
}

func defaultSettings() settings {
	return settings{
		classifier: Classifier{IsDate: document.IsISODate},
		isInt32:    IsInt32,
		linkMarker: DefaultLinkMarker,
		maxDepth:   DefaultMaxDepth,
	}
}

// WithIgnoredFields skips the named top-level fields entirely.
func WithIgnoredFields(fields ...string) Option {
	return func(s *settings) {
		if s.ignored == nil {
			s.ignored = make(map[string]struct{}, len(fields))
		}
		for _, f := range fields {
			s.ignored[f] = struct{}{}
		}
	}
}

// WithDateDetector replaces the string date predicate. Nil disables date
// detection.
func WithDateDetector(isDate func(string) bool) Option {
	return func(s *settings) {
		s.classifier.IsDate = isDate
	}
}

// WithIntegerTest replaces the predicate deciding whether a number is a
// plain integer. Numbers failing it widen a numeric field.
func WithIntegerTest(isInt func(float64) bool) Option {
	return func(s *settings) {
		if isInt != nil {
			s.isInt32 = isInt
		}
	}
}

// WithLinkMarker sets the substring that marks heterogeneous-reference
// fields. An empty marker disables link handling.
func WithLinkMarker(marker string) Option {
	return func(s *settings) {
		s.linkMarker = marker
	}
}

// WithMaxDepth bounds how many nested object levels are merged. Zero or a
// negative value removes the bound.
func WithMaxDepth(depth int) Option {
	return func(s *settings) {
		s.maxDepth = depth
	}
}
