package linked

import (
	"testing"
	"time"

	"ssw-process-mining/pkg/ocel"
)

func sampleOCEL() ocel.OCEL {
	t0 := ocel.EpochZero
	return ocel.OCEL{
		EventTypes:  []ocel.Type{{Name: "place_order"}, {Name: "pay_order"}},
		ObjectTypes: []ocel.Type{{Name: "order"}},
		Objects: []ocel.Object{
			{ID: "o-1", ObjectType: "order"},
		},
		Events: []ocel.Event{
			{ID: "e-place", EventType: "place_order", Time: t0.Add(2 * time.Hour),
				Relationships: []ocel.Relationship{{ObjectID: "o-1", Qualifier: "order"}}},
			{ID: "e-pay", EventType: "pay_order", Time: t0.Add(1 * time.Hour),
				Relationships: []ocel.Relationship{{ObjectID: "o-1", Qualifier: "order"}}},
		},
	}
}

func TestFromOCELSortsEventsByTimestamp(t *testing.T) {
	l := FromOCEL(sampleOCEL(), nil)

	if l.NumEvents() != 2 {
		t.Fatalf("expected 2 events, got %d", l.NumEvents())
	}
	if l.Event(0).ID != "e-pay" {
		t.Errorf("expected earlier-timestamped event first, got %q", l.Event(0).ID)
	}
	if l.Event(1).ID != "e-place" {
		t.Errorf("expected later-timestamped event second, got %q", l.Event(1).ID)
	}
}

func TestFromOCELBuildsEventsPerType(t *testing.T) {
	l := FromOCEL(sampleOCEL(), nil)

	payIdx, ok := l.EventIndexOf("e-pay")
	if !ok {
		t.Fatal("expected to find e-pay")
	}
	placeIdx, ok := l.EventIndexOf("e-place")
	if !ok {
		t.Fatal("expected to find e-place")
	}

	payTypeEvs := l.EventsPerType["pay_order"]
	if len(payTypeEvs) != 1 || payTypeEvs[0] != payIdx {
		t.Errorf("expected pay_order events %v, got %v", []EventIndex{payIdx}, payTypeEvs)
	}
	placeTypeEvs := l.EventsPerType["place_order"]
	if len(placeTypeEvs) != 1 || placeTypeEvs[0] != placeIdx {
		t.Errorf("expected place_order events %v, got %v", []EventIndex{placeIdx}, placeTypeEvs)
	}
}

func TestFromOCELCrossIndexInvariantE2O(t *testing.T) {
	l := FromOCEL(sampleOCEL(), nil)
	objIdx, ok := l.ObjectIndexOf("o-1")
	if !ok {
		t.Fatal("expected to find o-1")
	}

	for evIdx := 0; evIdx < l.NumEvents(); evIdx++ {
		for _, qo := range l.E2O(EventIndex(evIdx)) {
			found := false
			for _, qe := range l.E2ORev(qo.Object) {
				if qe.Event == EventIndex(evIdx) && qe.Qualifier == qo.Qualifier {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("forward e2o entry (event %d -> object %d, qualifier %q) has no matching reverse entry", evIdx, qo.Object, qo.Qualifier)
			}
		}
	}

	if _, present := l.E2OSet(EventIndex(0))[objIdx]; !present {
		t.Error("expected e2o set membership for o-1 on the earliest event")
	}
}

func TestFromOCELDropsDanglingRelationshipWithoutPanicking(t *testing.T) {
	o := sampleOCEL()
	o.Events[0].Relationships = append(o.Events[0].Relationships, ocel.Relationship{ObjectID: "does-not-exist", Qualifier: "order"})

	l := FromOCEL(o, nil)

	placeIdx, _ := l.EventIndexOf("e-place")
	for _, qo := range l.E2O(placeIdx) {
		if qo.Qualifier == "order" {
			ob := l.Object(qo.Object)
			if ob.ID == "does-not-exist" {
				t.Fatal("dangling relationship should have been dropped, not resolved")
			}
		}
	}
	// the valid relationship to o-1 must still be present
	objIdx, _ := l.ObjectIndexOf("o-1")
	found := false
	for _, qo := range l.E2O(placeIdx) {
		if qo.Object == objIdx {
			found = true
		}
	}
	if !found {
		t.Error("expected the valid relationship to o-1 to survive alongside the dropped dangling one")
	}
}

func TestFromOCELO2OCrossIndexInvariant(t *testing.T) {
	o := ocel.OCEL{
		ObjectTypes: []ocel.Type{{Name: "order"}, {Name: "item"}},
		Objects: []ocel.Object{
			{ID: "o-1", ObjectType: "order", Relationships: []ocel.Relationship{{ObjectID: "o-2", Qualifier: "contains"}}},
			{ID: "o-2", ObjectType: "item"},
		},
	}
	l := FromOCEL(o, nil)

	orderIdx, _ := l.ObjectIndexOf("o-1")
	itemIdx, _ := l.ObjectIndexOf("o-2")

	fwd := l.O2O(orderIdx)
	if len(fwd) != 1 || fwd[0].Object != itemIdx || fwd[0].Qualifier != "contains" {
		t.Fatalf("unexpected forward o2o for o-1: %v", fwd)
	}
	rev := l.O2ORev(itemIdx)
	if len(rev) != 1 || rev[0].Object != orderIdx || rev[0].Qualifier != "contains" {
		t.Fatalf("unexpected reverse o2o for o-2: %v", rev)
	}
}

func TestIntoInnerReturnsUnderlyingOCEL(t *testing.T) {
	o := sampleOCEL()
	l := FromOCEL(o, nil)
	inner := l.IntoInner()
	if len(inner.Events) != 2 || len(inner.Objects) != 1 {
		t.Errorf("expected the inner OCEL's shape to survive round trip, got %d events, %d objects", len(inner.Events), len(inner.Objects))
	}
}
