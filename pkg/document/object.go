package document

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an insertion-ordered mapping from field names to values.
// Both input documents and inferred example objects use it, so key order
// survives parsing, merging and rendering.
type Object struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, Value]()}
}

// Set stores v under key. Re-setting an existing key keeps its position.
func (o *Object) Set(key string, v Value) *Object {
	if o.fields == nil {
		o.fields = orderedmap.New[string, Value]()
	}
	o.fields.Set(key, v)
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.fields == nil {
		return Null(), false
	}
	return o.fields.Get(key)
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil || o.fields == nil {
		return false
	}
	_, ok := o.fields.Delete(key)
	return ok
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil || o.fields == nil {
		return 0
	}
	return o.fields.Len()
}

// Keys returns field names in insertion order.
func (o *Object) Keys() []string {
	if o == nil || o.fields == nil {
		return nil
	}
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range calls fn for each field in order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil || o.fields == nil {
		return
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}
