package pmtypes

import "testing"

func TestEventActivityFallback(t *testing.T) {
	e := Event{}
	if got := e.Activity(); got != FallbackActivity {
		t.Errorf("expected fallback activity, got %q", got)
	}

	e2 := NewEvent("submit order")
	if got := e2.Activity(); got != "submit order" {
		t.Errorf("expected %q, got %q", "submit order", got)
	}
}

func TestEventActivityNonStringValueFallsBack(t *testing.T) {
	e := Event{Attributes: Attributes{{Key: ActivityKey, Value: Int(42)}}}
	if got := e.Activity(); got != FallbackActivity {
		t.Errorf("expected fallback activity for non-string value, got %q", got)
	}
}

func TestAttributesGetByKeyOrGlobal(t *testing.T) {
	local := Attributes{NewAttribute("a", Int(1))}
	global := Attributes{NewAttribute("b", Int(2))}

	if _, ok := local.GetByKeyOrGlobal("b", global); !ok {
		t.Error("expected global fallback to find key b")
	}
	if _, ok := local.GetByKeyOrGlobal("c", global); ok {
		t.Error("expected lookup of missing key to fail")
	}
}

func TestEventLogTraceAttributeFallsBackToGlobal(t *testing.T) {
	log := EventLog{
		GlobalTraceAttrs: Attributes{NewAttribute("region", String("eu"))},
	}
	trace := Trace{}

	attr, ok := log.TraceAttribute(trace, "region")
	if !ok {
		t.Fatal("expected global trace attribute fallback")
	}
	if s, _ := attr.Value.AsString(); s != "eu" {
		t.Errorf("expected region=eu, got %q", s)
	}
}

func TestEventLogClassifierByName(t *testing.T) {
	log := EventLog{
		Classifiers: []EventLogClassifier{
			{Name: "Activity classifier", Keys: []string{ActivityKey}},
		},
	}
	c, ok := log.ClassifierByName("Activity classifier")
	if !ok {
		t.Fatal("expected to find classifier by name")
	}
	if len(c.Keys) != 1 || c.Keys[0] != ActivityKey {
		t.Errorf("unexpected classifier keys: %v", c.Keys)
	}
	if _, ok := log.ClassifierByName("missing"); ok {
		t.Error("expected missing classifier lookup to fail")
	}
}

func TestCloneWithoutTracesAndEvents(t *testing.T) {
	trace := Trace{Attributes: Attributes{NewAttribute("k", Int(1))}, Events: []Event{NewEvent("a")}}
	cloned := trace.CloneWithoutEvents()
	if len(cloned.Events) != 0 {
		t.Error("expected no events after CloneWithoutEvents")
	}
	if len(cloned.Attributes) != 1 {
		t.Error("expected attributes to survive CloneWithoutEvents")
	}

	log := EventLog{Attributes: Attributes{NewAttribute("k", Int(1))}, Traces: []Trace{trace}}
	logClone := log.CloneWithoutTraces()
	if len(logClone.Traces) != 0 {
		t.Error("expected no traces after CloneWithoutTraces")
	}
}
