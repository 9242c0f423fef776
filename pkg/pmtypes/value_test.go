package pmtypes

import (
	"testing"
	"time"
)

func TestValueKinds(t *testing.T) {
	if k := String("x").Kind(); k != KindString {
		t.Errorf("expected KindString, got %s", k)
	}
	if k := Int(3).Kind(); k != KindInt {
		t.Errorf("expected KindInt, got %s", k)
	}
	if k := None().Kind(); k != KindNone {
		t.Errorf("expected KindNone, got %s", k)
	}
}

func TestValueAsAccessorsRejectWrongKind(t *testing.T) {
	v := String("hello")
	if _, ok := v.AsInt(); ok {
		t.Error("expected AsInt to fail on a string value")
	}
	s, ok := v.AsString()
	if !ok || s != "hello" {
		t.Errorf("expected AsString to round-trip, got %q, %v", s, ok)
	}
}

func TestFloatPanicsOnNaN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Float(NaN) to panic")
		}
	}()
	Float(nanFloat())
}

func nanFloat() float64 {
	var zero float64
	return zero / zero
}

func TestDateRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := Date(now)
	got, ok := v.AsDate()
	if !ok || !got.Equal(now) {
		t.Errorf("expected date round-trip, got %v, %v", got, ok)
	}
}

func TestListAndContainerShareRepresentation(t *testing.T) {
	inner := []Attribute{NewAttribute("k", Int(1))}
	listVal := List(inner)
	containerVal := Container(inner)

	gotList, ok := listVal.AsList()
	if !ok || len(gotList) != 1 {
		t.Errorf("expected list value to expose its attributes, got %v, %v", gotList, ok)
	}
	gotContainer, ok := containerVal.AsList()
	if !ok || len(gotContainer) != 1 {
		t.Errorf("expected container value to expose its attributes, got %v, %v", gotContainer, ok)
	}
}

func TestStringRendersNoneAsString(t *testing.T) {
	if s := None().String(); s != "None" {
		t.Errorf("expected \"None\", got %q", s)
	}
}
