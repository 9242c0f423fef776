package petrinet

import "testing"

func TestAddArcPresetPostset(t *testing.T) {
	pn := New()
	p1 := pn.AddPlace(nil)
	label := "have fun"
	t1 := pn.AddTransition(&label, nil)
	sleepLabel := "sleep"
	t2 := pn.AddTransition(&sleepLabel, nil)
	pn.AddArc(PlaceToTransitionArc(p1, t1), nil)
	pn.AddArc(TransitionToPlaceArc(t2, p1), nil)

	if len(pn.PostsetOfTransition(t1)) != 0 {
		t.Error("expected t1 to have no postset")
	}
	pre := pn.PresetOfTransition(t1)
	if len(pre) != 1 || pre[0] != p1 {
		t.Errorf("expected t1 preset [p1], got %v", pre)
	}
	post := pn.PostsetOfPlace(p1)
	if len(post) != 1 || post[0] != t1 {
		t.Errorf("expected p1 postset [t1], got %v", post)
	}
	prePlace := pn.PresetOfPlace(p1)
	if len(prePlace) != 1 || prePlace[0] != t2 {
		t.Errorf("expected p1 preset [t2], got %v", prePlace)
	}
	if len(pn.PresetOfTransition(t2)) != 0 {
		t.Error("expected t2 to have no preset")
	}
}

func TestMarkingMembership(t *testing.T) {
	pn := New()
	p1 := pn.AddPlace(nil)
	p2 := pn.AddPlace(nil)
	pn.InitialMarking = Marking{p1: 1}
	pn.FinalMarkings = []Marking{{p2: 1}}

	if !pn.IsInInitialMarking(p1) {
		t.Error("expected p1 in initial marking")
	}
	if pn.IsInInitialMarking(p2) {
		t.Error("expected p2 not in initial marking")
	}
	if !pn.IsInAFinalMarking(p2) {
		t.Error("expected p2 in a final marking")
	}
	if pn.IsInAFinalMarking(p1) {
		t.Error("expected p1 not in a final marking")
	}
}
