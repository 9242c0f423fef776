package ocel

import (
	"encoding/json"
	"fmt"
	"time"
)

// AttributeKind identifies which field of an AttributeValue is
// populated.
type AttributeKind int

const (
	KindNull AttributeKind = iota
	KindTime
	KindInteger
	KindFloat
	KindBoolean
	KindString
)

// AttributeType is the declared type of an attribute in an event or
// object type's schema, independent of any particular value.
type AttributeType int

const (
	TypeString AttributeType = iota
	TypeTime
	TypeInteger
	TypeFloat
	TypeBoolean
)

// ToTypeString renders the attribute type the way the OCEL JSON/XML
// schema spells it.
func (t AttributeType) ToTypeString() string {
	switch t {
	case TypeTime:
		return "time"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// AttributeTypeFromString parses an OCEL schema type string. Unknown
// strings fall back to TypeString rather than failing the whole import.
func AttributeTypeFromString(s string) AttributeType {
	switch s {
	case "time":
		return TypeTime
	case "integer":
		return TypeInteger
	case "float":
		return TypeFloat
	case "boolean":
		return TypeBoolean
	default:
		return TypeString
	}
}

// MarshalJSON renders the type the same way ToTypeString does.
func (t AttributeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToTypeString())
}

// UnmarshalJSON parses the type the same way AttributeTypeFromString does.
func (t *AttributeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = AttributeTypeFromString(s)
	return nil
}

// AttributeValue is a kind-tagged union over the value kinds an OCEL
// attribute can carry, plus an explicit Null for "no value recorded".
type AttributeValue struct {
	kind AttributeKind
	t    time.Time
	i    int64
	f    float64
	b    bool
	s    string
}

// Null constructs the null value.
func Null() AttributeValue { return AttributeValue{kind: KindNull} }

// Time constructs a KindTime value.
func Time(t time.Time) AttributeValue { return AttributeValue{kind: KindTime, t: t} }

// Integer constructs a KindInteger value.
func Integer(i int64) AttributeValue { return AttributeValue{kind: KindInteger, i: i} }

// Float constructs a KindFloat value.
func Float(f float64) AttributeValue { return AttributeValue{kind: KindFloat, f: f} }

// Boolean constructs a KindBoolean value.
func Boolean(b bool) AttributeValue { return AttributeValue{kind: KindBoolean, b: b} }

// String constructs a KindString value.
func String(s string) AttributeValue { return AttributeValue{kind: KindString, s: s} }

// Kind reports which field is populated.
func (v AttributeValue) Kind() AttributeKind { return v.kind }

// IsNull reports whether v is the null value.
func (v AttributeValue) IsNull() bool { return v.kind == KindNull }

// AsTime returns the timestamp and true if Kind is KindTime.
func (v AttributeValue) AsTime() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// AsInteger returns the integer and true if Kind is KindInteger.
func (v AttributeValue) AsInteger() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float and true if Kind is KindFloat.
func (v AttributeValue) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsBoolean returns the boolean and true if Kind is KindBoolean.
func (v AttributeValue) AsBoolean() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsString returns the string and true if Kind is KindString.
func (v AttributeValue) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// jsonAttributeValue is the wire shape for AttributeValue: a kind tag
// plus whichever of the typed fields that kind populates.
type jsonAttributeValue struct {
	Kind  string      `json:"kind"`
	Value interface{} `json:"value,omitempty"`
}

// MarshalJSON encodes v as a kind-tagged value, not the OCEL-standard
// interchange representation.
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	out := jsonAttributeValue{Kind: v.kind.jsonName()}
	switch v.kind {
	case KindTime:
		out.Value = v.t.Format(time.RFC3339Nano)
	case KindInteger:
		out.Value = v.i
	case KindFloat:
		out.Value = v.f
	case KindBoolean:
		out.Value = v.b
	case KindString:
		out.Value = v.s
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the kind-tagged shape produced by MarshalJSON.
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var in jsonAttributeValue
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "time":
		s, _ := in.Value.(string)
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("ocel: invalid time attribute value %q: %w", s, err)
		}
		*v = Time(t)
	case "integer":
		f, _ := in.Value.(float64)
		*v = Integer(int64(f))
	case "float":
		f, _ := in.Value.(float64)
		*v = Float(f)
	case "boolean":
		b, _ := in.Value.(bool)
		*v = Boolean(b)
	case "string":
		s, _ := in.Value.(string)
		*v = String(s)
	default:
		*v = Null()
	}
	return nil
}

func (k AttributeKind) jsonName() string {
	switch k {
	case KindTime:
		return "time"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// String renders a display form of the value.
func (v AttributeValue) String() string {
	switch v.kind {
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return v.s
	default:
		return "null"
	}
}
