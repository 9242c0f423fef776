package petrinet

import "testing"

func TestAssembleRoutesStartEndToMarkings(t *testing.T) {
	// __START=0, a=1, b=2, __END=3. Two candidates chain __START -> a -> __END,
	// leaving "b" an unused, labeled (non-silent) transition that must
	// survive pruning since only unconnected *invisible* transitions
	// are dropped.
	activities := []string{"__START", "a", "b", "__END"}
	candidates := []Candidate{
		{Preset: []int{0}, Postset: []int{1}},
		{Preset: []int{1}, Postset: []int{3}},
	}

	pn := Assemble(activities, 0, 3, candidates)

	if len(pn.Transitions) != 2 {
		t.Fatalf("expected 2 transitions (a, b), got %d", len(pn.Transitions))
	}
	var foundA, foundB bool
	for _, tr := range pn.Transitions {
		if tr.Label != nil && *tr.Label == "a" {
			foundA = true
		}
		if tr.Label != nil && *tr.Label == "b" {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Errorf("expected transitions a and b to survive, foundA=%v foundB=%v", foundA, foundB)
	}

	if len(pn.Places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(pn.Places))
	}
	total := uint64(0)
	for _, n := range pn.InitialMarking {
		total += n
	}
	if total != 1 {
		t.Errorf("expected a single token in the initial marking, got %d", total)
	}
	if len(pn.FinalMarkings) != 1 {
		t.Fatalf("expected one final marking, got %d", len(pn.FinalMarkings))
	}
	total = 0
	for _, n := range pn.FinalMarkings[0] {
		total += n
	}
	if total != 1 {
		t.Errorf("expected a single token in the final marking, got %d", total)
	}
}

func TestAssembleDropsDisconnectedInvisibleTransition(t *testing.T) {
	activities := []string{"__START", "__SILENT__skip_after_a", "__END"}
	// No candidate references the silent transition at all, so it
	// should be created and then pruned since it is unlabeled and has
	// no arcs either way.
	candidates := []Candidate{
		{Preset: []int{0}, Postset: []int{2}},
	}

	pn := Assemble(activities, 0, 2, candidates)

	if len(pn.Transitions) != 0 {
		t.Errorf("expected the disconnected invisible transition to be dropped, got %d transitions", len(pn.Transitions))
	}
}
