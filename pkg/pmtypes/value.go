// Package pmtypes defines the case-centric log data model: typed
// attribute values, attributes, events, traces, and event logs.
//
// The model mirrors the XES attribute system: every attribute carries a
// typed [Value] and may nest further attributes. Lookup across an
// attribute list is linear by design — lists are expected to be short
// (a handful of attributes per event) and insertion order matters for
// some classifiers.
package pmtypes

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Kind identifies which field of a Value is populated.
type Kind int

const (
	KindNone Kind = iota
	KindString
	KindDate
	KindInt
	KindFloat
	KindBool
	KindID
	KindList
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindID:
		return "id"
	case KindList:
		return "list"
	case KindContainer:
		return "container"
	default:
		return "none"
	}
}

// Value is a typed attribute value. Exactly one of the typed fields is
// meaningful, selected by Kind; the zero Value is KindNone.
//
// Floats compare by total order — a NaN float must never be
// constructed through [Float]; callers that might receive NaN should
// check with math.IsNaN before calling it and raise a numeric error
// instead (see pkg/errors.NumericError).
type Value struct {
	kind Kind
	str  string
	date time.Time
	i    int64
	f    float64
	b    bool
	id   uuid.UUID
	list []Attribute
}

// String constructs a KindString value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Date constructs a KindDate value.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

// Int constructs a KindInt value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float constructs a KindFloat value. Panics if v is NaN: a NaN float
// is a malformed-input condition at the point of construction, not a
// representable value.
func Float(v float64) Value {
	if math.IsNaN(v) {
		panic("pmtypes: NaN is not a representable float value")
	}
	return Value{kind: KindFloat, f: v}
}

// Bool constructs a KindBool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// ID constructs a KindID value.
func ID(id uuid.UUID) Value { return Value{kind: KindID, id: id} }

// List constructs a KindList value — an ordered list of attributes
// where duplicate keys and nested own_attributes are both meaningful.
func List(attrs []Attribute) Value { return Value{kind: KindList, list: attrs} }

// Container constructs a KindContainer value — an unordered group of
// attributes addressed by key.
func Container(attrs []Attribute) Value { return Value{kind: KindContainer, list: attrs} }

// None constructs the null value, used to represent a value that could
// not be parsed (e.g. an unparsable timestamp).
func None() Value { return Value{kind: KindNone} }

// Kind reports which field of the value is populated.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string value and true if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsDate returns the timestamp value and true if Kind is KindDate.
func (v Value) AsDate() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// AsInt returns the integer value and true if Kind is KindInt.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float value and true if Kind is KindFloat.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsBool returns the boolean value and true if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsID returns the id value and true if Kind is KindID.
func (v Value) AsID() (uuid.UUID, bool) {
	if v.kind != KindID {
		return uuid.UUID{}, false
	}
	return v.id, true
}

// AsList returns the nested attribute list and true if Kind is
// KindList or KindContainer.
func (v Value) AsList() ([]Attribute, bool) {
	if v.kind != KindList && v.kind != KindContainer {
		return nil, false
	}
	return v.list, true
}

// String renders a display form of the value. Container/list values
// render as a Go-syntax representation; None renders as "None".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindDate:
		return v.date.String()
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindID:
		return v.id.String()
	case KindList, KindContainer:
		return fmt.Sprintf("%v", v.list)
	default:
		return "None"
	}
}
