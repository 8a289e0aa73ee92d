package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// FromAny converts a Go value tree (as produced by encoding/json, yaml.v3 or
// gojq) into a Value. Map keys are sorted because Go maps carry no order.
// Values of unsupported types convert to Null.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case *Object:
		return ObjectValue(val)
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case *string:
		if val == nil {
			return Null()
		}
		return BoxedString(*val)
	case float64:
		return Number(val)
	case float32:
		return Number(float64(val))
	case int:
		return Number(float64(val))
	case int8:
		return Number(float64(val))
	case int16:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case uint:
		return Number(float64(val))
	case uint8:
		return Number(float64(val))
	case uint16:
		return Number(float64(val))
	case uint32:
		return Number(float64(val))
	case uint64:
		return Number(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Null()
		}
		return Number(f)
	case time.Time:
		return Date(val)
	case *time.Time:
		if val == nil {
			return Null()
		}
		return Date(*val)
	case []any:
		elems := make([]Value, len(val))
		for i, e := range val {
			elems[i] = FromAny(e)
		}
		return Array(elems...)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(val[k]))
		}
		return ObjectValue(obj)
	case map[any]any:
		keys := make([]string, 0, len(val))
		byKey := make(map[string]any, len(val))
		for k, e := range val {
			ks := fmt.Sprintf("%v", k)
			keys = append(keys, ks)
			byKey[ks] = e
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(byKey[k]))
		}
		return ObjectValue(obj)
	default:
		return Null()
	}
}

// ToAny converts v into plain Go values suitable for encoding/json and gojq.
// Dates become RFC 3339 strings and objects become map[string]any, so key
// order is lost; use MarshalJSON when order matters.
func ToAny(v Value) any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBoolean:
		return v.b
	case KindDate:
		return v.t.Format(time.RFC3339Nano)
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = ToAny(e)
		}
		return out
	case KindObject:
		return ObjectToAny(v.obj)
	default:
		return nil
	}
}

// ObjectToAny converts o into a map[string]any.
func ObjectToAny(o *Object) map[string]any {
	out := make(map[string]any, o.Len())
	o.Range(func(k string, e Value) bool {
		out[k] = ToAny(e)
		return true
	})
	return out
}

// Objects extracts the object documents from values, dropping anything else.
func Objects(values []Value) []*Object {
	docs := make([]*Object, 0, len(values))
	for _, v := range values {
		if v.kind == KindObject {
			docs = append(docs, v.obj)
		}
	}
	return docs
}

// Values wraps each document as an object Value.
func Values(docs []*Object) []Value {
	out := make([]Value, len(docs))
	for i, d := range docs {
		out[i] = ObjectValue(d)
	}
	return out
}

// Flatten turns parsed top-level values into documents: objects are kept and
// arrays contribute their object elements. Everything else is dropped.
func Flatten(values []Value) []*Object {
	var docs []*Object
	for _, v := range values {
		switch v.Kind() {
		case KindObject:
			docs = append(docs, v.Object())
		case KindArray:
			docs = append(docs, Objects(v.Elems())...)
		}
	}
	return docs
}
