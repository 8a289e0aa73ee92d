// Package jsoncompact shortens documents for display by trimming arrays,
// long strings and deep nesting.
package jsoncompact

import (
	"fmt"
	"unicode/utf8"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

// Options controls compaction behavior.
type Options struct {
	MaxArrayItems int // Trim arrays to N items (0 = no limit)
	MaxStringLen  int // Truncate strings longer than N runes (0 = no limit)
	MaxDepth      int // Max recursion depth (0 = unlimited)
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxStringLen  = 120
	DefaultMaxDepth      = 4
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Compact shortens JSON bytes, keeping object key order.
// Returns error if input is not valid JSON.
// If opts is nil, DefaultOptions() is used.
func Compact(data []byte, opts *Options) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	v, err := document.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return CompactValue(v, opts).MarshalJSON()
}

// CompactValue returns a shortened copy of v.
// If opts is nil, DefaultOptions() is used.
func CompactValue(v document.Value, opts *Options) document.Value {
	if opts == nil {
		opts = DefaultOptions()
	}
	return compactRecursive(v, opts, 0)
}

// Preview renders v as compact single-line JSON for log and error messages.
func Preview(v document.Value, opts *Options) string {
	return CompactValue(v, opts).String()
}

func compactRecursive(v document.Value, opts *Options, depth int) document.Value {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth && (v.IsArray() || v.IsObject()) {
		return document.String("[max depth]")
	}

	switch v.Kind() {
	case document.KindArray:
		return compactArray(v.Elems(), opts, depth)
	case document.KindObject:
		return compactObject(v.Object(), opts, depth)
	case document.KindString:
		s := compactString(v.Str(), opts)
		if v.Boxed() {
			return document.BoxedString(s)
		}
		return document.String(s)
	default:
		return v
	}
}

func compactString(s string, opts *Options) string {
	if opts.MaxStringLen <= 0 {
		return s
	}
	n := utf8.RuneCountInString(s)
	if n <= opts.MaxStringLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:opts.MaxStringLen]) + fmt.Sprintf("... (%d more chars)", n-opts.MaxStringLen)
}

func compactArray(arr []document.Value, opts *Options, depth int) document.Value {
	if opts.MaxArrayItems <= 0 || len(arr) <= opts.MaxArrayItems {
		out := make([]document.Value, len(arr))
		for i, item := range arr {
			out[i] = compactRecursive(item, opts, depth+1)
		}
		return document.Array(out...)
	}

	out := make([]document.Value, opts.MaxArrayItems+1)
	for i := 0; i < opts.MaxArrayItems; i++ {
		out[i] = compactRecursive(arr[i], opts, depth+1)
	}
	remaining := len(arr) - opts.MaxArrayItems
	out[opts.MaxArrayItems] = document.String(fmt.Sprintf("... (%d more items)", remaining))
	return document.Array(out...)
}

func compactObject(obj *document.Object, opts *Options, depth int) document.Value {
	out := document.NewObject()
	obj.Range(func(key string, v document.Value) bool {
		out.Set(key, compactRecursive(v, opts, depth+1))
		return true
	})
	return document.ObjectValue(out)
}
