// Package document models schemaless records as a closed variant of values.
//
// A Document is an ordered *Object mapping field names to Values. Values are
// one of Null, Number, String, Boolean, Date, Array or Object and nest to any
// depth. The zero Value is Null.
package document

import (
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindDate
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:    "null",
	KindNumber:  "number",
	KindString:  "string",
	KindBoolean: "boolean",
	KindDate:    "date",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is one node of a document tree.
type Value struct {
	kind  Kind
	num   float64
	str   string
	boxed bool
	b     bool
	t     time.Time
	arr   []Value
	obj   *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// BoxedString returns a string value that is never inspected for date
// formats, mirroring wrapper string objects in dynamic sources.
func BoxedString(s string) Value { return Value{kind: KindString, str: s, boxed: true} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Array returns an array value holding elems.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// ObjectValue wraps o as a Value. A nil object becomes an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// Float returns the number held by v, or 0.
func (v Value) Float() float64 { return v.num }

// Str returns the string held by v, or "".
func (v Value) Str() string { return v.str }

// Boxed reports whether v is a boxed string.
func (v Value) Boxed() bool { return v.boxed }

// BoolValue returns the boolean held by v, or false.
func (v Value) BoolValue() bool { return v.b }

// Time returns the date held by v, or the zero time.
func (v Value) Time() time.Time { return v.t }

// Elems returns the elements of an array value, or nil.
func (v Value) Elems() []Value { return v.arr }

// Object returns the object held by v, or nil.
func (v Value) Object() *Object { return v.obj }

// First returns the first element of an array, or Null when v is not an
// array or is empty.
func (v Value) First() Value {
	if v.kind != KindArray || len(v.arr) == 0 {
		return Null()
	}
	return v.arr[0]
}

// Wrap nests v inside depth single-element arrays.
func Wrap(v Value, depth int) Value {
	for ; depth > 0; depth-- {
		v = Array(v)
	}
	return v
}

// String renders v as JSON for debugging and log output.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}
