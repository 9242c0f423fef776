package ocdeclare

import (
	"fmt"
	"testing"
	"time"

	"ssw-process-mining/pkg/ocel"
	"ssw-process-mining/pkg/ocel/linked"
)

// cleanOrdersOCEL builds n orders each with exactly one place_order
// event directly followed (in that order's own history) by one
// pay_order event: the nearest later event touching an order is always
// its payment, so directly-follows holds for every order.
func cleanOrdersOCEL(n int) ocel.OCEL {
	t0 := ocel.EpochZero
	o := ocel.OCEL{
		EventTypes:  []ocel.Type{{Name: "place_order"}, {Name: "pay_order"}},
		ObjectTypes: []ocel.Type{{Name: "order"}},
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("order-%d", i)
		o.Objects = append(o.Objects, ocel.Object{ID: id, ObjectType: "order"})
		base := t0.Add(time.Duration(i) * 24 * time.Hour)
		o.Events = append(o.Events,
			ocel.Event{ID: id + "-place", EventType: "place_order", Time: base,
				Relationships: []ocel.Relationship{{ObjectID: id, Qualifier: "order"}}},
			ocel.Event{ID: id + "-pay", EventType: "pay_order", Time: base.Add(time.Hour),
				Relationships: []ocel.Relationship{{ObjectID: id, Qualifier: "order"}}},
		)
	}
	return o
}

// amendedOrdersOCEL is cleanOrdersOCEL but the first order receives a
// second place_order event (an amendment) between its original
// placement and its payment, so the nearest later event touching that
// order is no longer its payment.
func amendedOrdersOCEL(n int) ocel.OCEL {
	o := cleanOrdersOCEL(n)
	id := "order-0"
	var base time.Time
	for _, ev := range o.Events {
		if ev.ID == id+"-place" {
			base = ev.Time
		}
	}
	o.Events = append(o.Events, ocel.Event{
		ID: id + "-amend", EventType: "place_order", Time: base.Add(30 * time.Minute),
		Relationships: []ocel.Relationship{{ObjectID: id, Qualifier: "order"}},
	})
	return o
}

func findArc(arcs []Arc, from, to string) (Arc, bool) {
	for _, a := range arcs {
		if a.From == from && a.To == to {
			return a, true
		}
	}
	return Arc{}, false
}

func discoveryOpts() DiscoveryOptions {
	opts := DefaultDiscoveryOptions()
	opts.ActsToUse = []string{"place_order", "pay_order"}
	return opts
}

func TestDiscoverPrefersDirectlyFollowsWhenItHoldsForEveryObject(t *testing.T) {
	l := linked.FromOCEL(cleanOrdersOCEL(3), nil)
	arcs := Discover(l, discoveryOpts())

	arc, ok := findArc(arcs, "place_order", "pay_order")
	if !ok {
		t.Fatal("expected a discovered arc from place_order to pay_order")
	}
	if arc.ArcType != DF {
		t.Errorf("expected DF (directly-follows holds trivially with one related event per order), got %v", arc.ArcType)
	}
	if !arc.Label.Equal(ArcLabel{Each: []ObjectTypeAssociation{SimpleAssociation("order")}}) {
		t.Errorf("expected label each(order), got %+v", arc.Label)
	}
	if arc.Counts.Min == nil || *arc.Counts.Min != 1 || arc.Counts.Max != nil {
		t.Errorf("expected counts (1, None), got %+v", arc.Counts)
	}
}

func TestDiscoverFallsBackToEventuallyFollowsWhenDirectlyFollowsBreaks(t *testing.T) {
	l := linked.FromOCEL(amendedOrdersOCEL(3), nil)
	arcs := Discover(l, discoveryOpts())

	arc, ok := findArc(arcs, "place_order", "pay_order")
	if !ok {
		t.Fatal("expected a discovered arc from place_order to pay_order")
	}
	if arc.ArcType != EF {
		t.Errorf("expected EF once an amendment breaks directly-follows for one order, got %v", arc.ArcType)
	}
}
