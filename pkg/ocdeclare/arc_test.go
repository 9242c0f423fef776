package ocdeclare

import "testing"

func TestParseArcTypeRoundTripsString(t *testing.T) {
	for _, want := range []ArcType{AS, EF, EP, DF, DP} {
		got, ok := ParseArcType(want.String())
		if !ok || got != want {
			t.Errorf("ParseArcType(%q) = %v, %v; want %v, true", want.String(), got, ok, want)
		}
	}
	if _, ok := ParseArcType("XX"); ok {
		t.Error("expected an unknown arc type string to fail to parse")
	}
}

func TestParseO2OModeAndReductionMode(t *testing.T) {
	if got, ok := ParseO2OMode("bidirectional"); !ok || got != O2OBidirectional {
		t.Errorf("ParseO2OMode(bidirectional) = %v, %v", got, ok)
	}
	if _, ok := ParseO2OMode("sideways"); ok {
		t.Error("expected an unknown O2O mode to fail to parse")
	}
	if got, ok := ParseReductionMode("lossy"); !ok || got != ReductionLossy {
		t.Errorf("ParseReductionMode(lossy) = %v, %v", got, ok)
	}
	if _, ok := ParseReductionMode("aggressive"); ok {
		t.Error("expected an unknown reduction mode to fail to parse")
	}
}

func TestArcTypeStrictnessOrder(t *testing.T) {
	cases := []struct {
		a, b ArcType
		want bool
	}{
		{DF, EF, true},
		{EF, DF, false},
		{DF, AS, true},
		{AS, DF, false},
		{EF, AS, true},
		{DP, EP, true},
		{EP, DP, false},
		{DF, DP, false}, // different chains
		{AS, AS, true},
	}
	for _, c := range cases {
		if got := c.a.AtLeastAsStrict(c.b); got != c.want {
			t.Errorf("%v.AtLeastAsStrict(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestCountsWithin(t *testing.T) {
	one, five := 1, 5
	c := Counts{Min: &one, Max: &five}
	for n, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false} {
		if got := c.Within(n); got != want {
			t.Errorf("Within(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestArcLabelCombineDedupes(t *testing.T) {
	order := SimpleAssociation("order")
	item := SimpleAssociation("item")
	l1 := ArcLabel{Each: []ObjectTypeAssociation{order}}
	l2 := ArcLabel{Each: []ObjectTypeAssociation{order, item}}

	combined := l1.Combine(l2)
	if len(combined.Each) != 2 {
		t.Fatalf("expected 2 deduplicated each-elements, got %v", combined.Each)
	}
}

func TestArcLabelDominance(t *testing.T) {
	order := SimpleAssociation("order")

	eachOnly := ArcLabel{Each: []ObjectTypeAssociation{order}}
	allOnly := ArcLabel{All: []ObjectTypeAssociation{order}}
	anyOnly := ArcLabel{Any: []ObjectTypeAssociation{order}}

	if !eachOnly.IsDominatedBy(allOnly) {
		t.Error("expected each(order) to be dominated by all(order): a single shared witness for all also witnesses each")
	}
	if !anyOnly.IsDominatedBy(eachOnly) {
		t.Error("expected any(order) to be dominated by each(order)")
	}
	if allOnly.IsDominatedBy(anyOnly) {
		t.Error("all(order) must not be dominated by any(order): any is strictly weaker")
	}
}

func TestArcLabelEqual(t *testing.T) {
	order := SimpleAssociation("order")
	item := SimpleAssociation("item")
	l1 := ArcLabel{Each: []ObjectTypeAssociation{order, item}}
	l2 := ArcLabel{Each: []ObjectTypeAssociation{item, order}}
	if !l1.Equal(l2) {
		t.Error("expected order-independent equality")
	}
}
