package exemplar

import (
	"strings"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

type merger struct {
	settings
	reporter Reporter
}

// mergeObject folds docs into a single example object. Fields whose values
// conflict, or carry no type in any document, are left out.
func (m *merger) mergeObject(docs []document.Value, prefix string, ignored map[string]struct{}, depth int) *document.Object {
	example := document.NewObject()
	for _, key := range unionKeys(docs, ignored) {
		selector := key
		if prefix != "" {
			selector = prefix + "." + key
		}
		if v, ok := m.mergeField(docs, key, selector, depth); ok {
			example.Set(key, v)
		}
	}
	return example
}

func (m *merger) mergeField(docs []document.Value, key, selector string, depth int) (document.Value, bool) {
	entries := m.collect(docs, key)
	candidates := distinctByType(entries)
	if len(candidates) == 0 {
		return document.Null(), false
	}
	if len(candidates) > 1 || candidates[0].Type.IsComposite() {
		m.reporter.AddConflict(selector, candidates)
		return document.Null(), false
	}

	value, arrayDepth := unwrap(candidates[0].Value)

	var example document.Value
	switch {
	case value.IsObject():
		if m.maxDepth > 0 && depth+1 > m.maxDepth {
			if dr, ok := m.reporter.(DepthReporter); ok {
				dr.AddTruncated(selector, depth+1)
			}
			return document.Null(), false
		}
		nested := m.mergeObject(gatherObjects(entries, arrayDepth), selector, nil, depth+1)
		if nested.Len() == 0 {
			return document.Null(), false
		}
		example = document.ObjectValue(nested)
	case arrayDepth > 0 && m.linkMarker != "" && strings.Contains(key, m.linkMarker):
		arrayDepth--
		example = concatValues(entries)
	case value.Kind() == document.KindNumber:
		example = value
		if widest, ok := FindFloat(rawValues(entries), m.isInt32); ok {
			example = widest
		}
	default:
		example = value
	}

	return document.Wrap(example, arrayDepth), true
}

// collect gathers, in document order, every typed value stored under key.
func (m *merger) collect(docs []document.Value, key string) []Candidate {
	var entries []Candidate
	for _, d := range docs {
		obj := d.Object()
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		tag := m.classifier.Classify(v)
		if tag == TagNone {
			continue
		}
		entries = append(entries, Candidate{Value: v, Type: tag, Parent: obj})
	}
	return entries
}

// unionKeys returns the keys of all docs in first-seen order, skipping empty
// and ignored names.
func unionKeys(docs []document.Value, ignored map[string]struct{}) []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, d := range docs {
		d.Object().Range(func(key string, _ document.Value) bool {
			if key == "" {
				return true
			}
			if _, skip := ignored[key]; skip {
				return true
			}
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				keys = append(keys, key)
			}
			return true
		})
	}
	return keys
}

// distinctByType keeps the first entry of each tag.
func distinctByType(entries []Candidate) []Candidate {
	var out []Candidate
	seen := make(map[TypeTag]struct{})
	for _, e := range entries {
		if _, dup := seen[e.Type]; dup {
			continue
		}
		seen[e.Type] = struct{}{}
		out = append(out, e)
	}
	return out
}

// unwrap takes the first element of v until it is no longer an array,
// counting the levels removed.
func unwrap(v document.Value) (document.Value, int) {
	depth := 0
	for v.IsArray() {
		v = v.First()
		depth++
	}
	return v, depth
}

// gatherObjects strips all but the outermost array level from every entry
// and flattens that level, yielding the objects to merge one level down.
func gatherObjects(entries []Candidate, arrayDepth int) []document.Value {
	var out []document.Value
	for _, e := range entries {
		v := e.Value
		for i := 1; i < arrayDepth; i++ {
			v = v.First()
		}
		if v.IsArray() {
			out = append(out, v.Elems()...)
			continue
		}
		out = append(out, v)
	}
	return out
}

// concatValues joins every entry's raw value, spreading arrays one level.
func concatValues(entries []Candidate) document.Value {
	var out []document.Value
	for _, e := range entries {
		if e.Value.IsArray() {
			out = append(out, e.Value.Elems()...)
			continue
		}
		out = append(out, e.Value)
	}
	return document.Array(out...)
}

func rawValues(entries []Candidate) []document.Value {
	out := make([]document.Value, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}
