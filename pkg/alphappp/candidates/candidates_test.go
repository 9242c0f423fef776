package candidates

import (
	"testing"

	"ssw-process-mining/pkg/dfg"
)

func TestBuildClosesToMaximalPairs(t *testing.T) {
	// 0->1:10, 1->2:10, 0->2:5, threshold 5. The seed edge (0,1) closes
	// to A={0},B={1,2} (0 precedes both 1 and 2 above threshold, and
	// nothing else precedes both); the seed edges (0,2) and (1,2) both
	// close to the same pair A={0,1},B={2} (only 2 is followed by both
	// 0 and 1), so Build must deduplicate them to a single candidate.
	d := &dfg.DFG{
		Nodes: []int{0, 1, 2},
		Edges: map[dfg.Edge]uint64{
			{From: 0, To: 1}: 10,
			{From: 1, To: 2}: 10,
			{From: 0, To: 2}: 5,
		},
	}

	got := Build(d, 5)

	if len(got) != 2 {
		t.Fatalf("expected 2 distinct candidates, got %d: %+v", len(got), got)
	}
	foundFirst, foundSecond := false, false
	for _, c := range got {
		if sameSet(c.A, []int{0}) && sameSet(c.B, []int{1, 2}) {
			foundFirst = true
		}
		if sameSet(c.A, []int{0, 1}) && sameSet(c.B, []int{2}) {
			foundSecond = true
		}
	}
	if !foundFirst {
		t.Error("expected candidate A={0} B={1,2}")
	}
	if !foundSecond {
		t.Error("expected candidate A={0,1} B={2}")
	}
}

func TestBuildEmptyGraphProducesNoCandidates(t *testing.T) {
	d := &dfg.DFG{Nodes: []int{0}, Edges: map[dfg.Edge]uint64{}}
	got := Build(d, 1)
	if len(got) != 0 {
		t.Errorf("expected no candidates for an edgeless graph, got %v", got)
	}
}
