package conflict

import (
	"strings"

	"github.com/usestring/exemplar-mcp/pkg/exemplar"
)

// Describe renders a type tag for people: "[number]" becomes
// "array<number>" and "[string,[date]]" becomes "array<string|array<date>>".
func Describe(tag exemplar.TypeTag) string {
	s := string(tag)
	if s == "" {
		return "null"
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return s
	}

	parts := splitTopLevel(s[1 : len(s)-1])
	described := make([]string, len(parts))
	for i, p := range parts {
		described[i] = Describe(exemplar.TypeTag(p))
	}
	return "array<" + strings.Join(described, "|") + ">"
}

// DescribeAll describes each tag.
func DescribeAll(tags []exemplar.TypeTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = Describe(t)
	}
	return out
}

// splitTopLevel splits on commas that are not nested inside brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
