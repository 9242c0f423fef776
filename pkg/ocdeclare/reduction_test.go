package ocdeclare

import "testing"

func TestReduceArcsDropsTransitivelyImpliedArc(t *testing.T) {
	order := SimpleAssociation("order")
	label := ArcLabel{Each: []ObjectTypeAssociation{order}}
	one := 1

	a := Arc{From: "place", To: "ship", ArcType: DF, Label: label, Counts: Counts{Min: &one}}
	b := Arc{From: "ship", To: "pay", ArcType: DF, Label: label, Counts: Counts{Min: &one}}
	c := Arc{From: "place", To: "pay", ArcType: EF, Label: label, Counts: Counts{Min: &one}}

	reduced := ReduceArcs([]Arc{a, b, c}, false)
	if len(reduced) != 2 {
		t.Fatalf("expected c to be dropped as implied by a and b, got %d arcs: %+v", len(reduced), reduced)
	}
	for _, arc := range reduced {
		if arc.From == "place" && arc.To == "pay" {
			t.Error("place->pay should have been reduced away")
		}
	}
}

func TestReduceArcsLosslessKeepsArcWhenAnyPartsOverlap(t *testing.T) {
	order := SimpleAssociation("order")
	item := SimpleAssociation("item")
	one := 1

	// a, b, and c all carry the identical label, so c is trivially
	// dominated by both a and b; the deciding factor becomes whether
	// b's any-part overlaps c's any-part.
	label := ArcLabel{Each: []ObjectTypeAssociation{order}, Any: []ObjectTypeAssociation{item}}

	a := Arc{From: "place", To: "ship", ArcType: DF, Label: label, Counts: Counts{Min: &one}}
	b := Arc{From: "ship", To: "pay", ArcType: DF, Label: label, Counts: Counts{Min: &one}}
	c := Arc{From: "place", To: "pay", ArcType: EF, Label: label, Counts: Counts{Min: &one}}

	lossy := ReduceArcs([]Arc{a, b, c}, false)
	if _, ok := findArc(lossy, "place", "pay"); ok {
		t.Error("expected place->pay to be dropped by lossy reduction")
	}

	lossless := ReduceArcs([]Arc{a, b, c}, true)
	if _, ok := findArc(lossless, "place", "pay"); !ok {
		t.Error("expected place->pay to survive lossless reduction since its any-part overlaps b's")
	}
}

func TestReduceArcsKeepsArcsWithNoComposingPair(t *testing.T) {
	order := SimpleAssociation("order")
	label := ArcLabel{Each: []ObjectTypeAssociation{order}}
	one := 1
	a := Arc{From: "place", To: "pay", ArcType: EF, Label: label, Counts: Counts{Min: &one}}

	reduced := ReduceArcs([]Arc{a}, false)
	if len(reduced) != 1 {
		t.Fatalf("expected the single arc to survive with nothing to compose it from, got %v", reduced)
	}
}
