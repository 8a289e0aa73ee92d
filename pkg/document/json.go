package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/buger/jsonparser"
)

// maxParseDepth bounds nesting while parsing untrusted input.
const maxParseDepth = 512

// ErrTooDeep is returned when input nests deeper than the parser allows.
var ErrTooDeep = errors.New("document nesting too deep")

// ParseJSON parses a single JSON value, preserving object key order.
func ParseJSON(data []byte) (Value, error) {
	raw, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return Null(), fmt.Errorf("invalid JSON: %w", err)
	}
	return parseJSONValue(raw, dt, 0)
}

// ParseJSONDocuments parses a JSON array of objects, a single object, or a
// stream of whitespace/newline separated values (NDJSON) and flattens the
// result with Flatten.
func ParseJSONDocuments(data []byte) ([]*Object, error) {
	values, err := ParseJSONValues(data)
	if err != nil {
		return nil, err
	}
	return Flatten(values), nil
}

// ParseJSONValues parses a stream of whitespace/newline separated JSON
// values. Empty input yields no values.
func ParseJSONValues(data []byte) ([]Value, error) {
	rest := bytes.TrimSpace(data)
	if len(rest) == 0 {
		return nil, nil
	}

	var values []Value
	for len(rest) > 0 {
		raw, dt, end, err := jsonparser.Get(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON at document %d: %w", len(values)+1, err)
		}
		v, err := parseJSONValue(raw, dt, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON at document %d: %w", len(values)+1, err)
		}
		values = append(values, v)
		rest = bytes.TrimSpace(rest[end:])
	}
	return values, nil
}

func parseJSONValue(raw []byte, dt jsonparser.ValueType, depth int) (Value, error) {
	if depth > maxParseDepth {
		return Null(), ErrTooDeep
	}

	switch dt {
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Null(), err
		}
		return String(s), nil

	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return Null(), err
		}
		return Number(f), nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Null(), err
		}
		return Bool(b), nil

	case jsonparser.Null:
		return Null(), nil

	case jsonparser.Array:
		elems := make([]Value, 0)
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, t jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			v, err := parseJSONValue(value, t, depth+1)
			if err != nil {
				inner = err
				return
			}
			elems = append(elems, v)
		})
		if err == nil {
			err = inner
		}
		if err != nil {
			return Null(), err
		}
		return Array(elems...), nil

	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(raw, func(key, value []byte, t jsonparser.ValueType, _ int) error {
			v, err := parseJSONValue(value, t, depth+1)
			if err != nil {
				return err
			}
			obj.Set(string(key), v)
			return nil
		})
		if err != nil {
			return Null(), err
		}
		return ObjectValue(obj), nil

	default:
		return Null(), fmt.Errorf("unsupported JSON value type %s", dt)
	}
}

// MarshalJSON renders v as JSON with object keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders o as a JSON object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeObject(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object into o, preserving key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := ParseJSON(data)
	if err != nil {
		return err
	}
	if !v.IsObject() {
		return fmt.Errorf("expected JSON object, got %s", v.Kind())
	}
	*o = *v.Object()
	return nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindNumber:
		// NaN and infinities have no JSON form.
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(v.num)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBoolean:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindDate:
		buf.WriteByte('"')
		buf.WriteString(v.t.Format(time.RFC3339Nano))
		buf.WriteByte('"')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		return writeObject(buf, v.obj)
	}
	return nil
}

func writeObject(buf *bytes.Buffer, o *Object) error {
	buf.WriteByte('{')
	first := true
	var err error
	o.Range(func(k string, e Value) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, kerr := json.Marshal(k)
		if kerr != nil {
			err = kerr
			return false
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err = writeJSON(buf, e); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}
