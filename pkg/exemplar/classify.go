package exemplar

import (
	"strings"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

// TypeTag is the coarse shape of a value. Array tags render their distinct
// element tags in first-seen order, e.g. "[number]" or "[string,object]".
// The empty tag means the value carries no type and is treated as absent.
type TypeTag string

const (
	TagNone    TypeTag = ""
	TagNumber  TypeTag = "number"
	TagString  TypeTag = "string"
	TagBoolean TypeTag = "boolean"
	TagDate    TypeTag = "date"
	TagObject  TypeTag = "object"
)

// IsArray reports whether t is an array tag.
func (t TypeTag) IsArray() bool {
	return strings.HasPrefix(string(t), "[")
}

// IsComposite reports whether t is an array tag mixing more than one element
// type at any nesting level.
func (t TypeTag) IsComposite() bool {
	return strings.Contains(string(t), ",")
}

// ArrayTag renders the tag of an array whose elements carry inner.
func ArrayTag(inner ...TypeTag) TypeTag {
	parts := make([]string, len(inner))
	for i, tag := range inner {
		parts[i] = string(tag)
	}
	return TypeTag("[" + strings.Join(parts, ",") + "]")
}

// Classifier assigns type tags to values. IsDate decides whether a plain
// string is a date; a nil IsDate never reports dates.
type Classifier struct {
	IsDate func(string) bool
}

// DefaultClassifier detects ISO 8601 date strings.
func DefaultClassifier() Classifier {
	return Classifier{IsDate: document.IsISODate}
}

// Classify returns the tag for v, or TagNone for null, empty objects and
// arrays without any typed element.
func (c Classifier) Classify(v document.Value) TypeTag {
	switch v.Kind() {
	case document.KindNumber:
		return TagNumber
	case document.KindString:
		if !v.Boxed() && c.IsDate != nil && c.IsDate(v.Str()) {
			return TagDate
		}
		return TagString
	case document.KindBoolean:
		return TagBoolean
	case document.KindDate:
		return TagDate
	case document.KindArray:
		var inner []TypeTag
		seen := make(map[TypeTag]struct{})
		for _, e := range v.Elems() {
			tag := c.Classify(e)
			if tag == TagNone {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			inner = append(inner, tag)
		}
		if len(inner) == 0 {
			return TagNone
		}
		return ArrayTag(inner...)
	case document.KindObject:
		if v.Object().Len() == 0 {
			return TagNone
		}
		return TagObject
	default:
		return TagNone
	}
}

// Classify tags v with the default classifier.
func Classify(v document.Value) TypeTag {
	return DefaultClassifier().Classify(v)
}
