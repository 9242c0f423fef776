package candidates

import (
	"testing"

	"ssw-process-mining/pkg/eventlog/projection"
)

func TestPruneAcceptsPerfectlyReplayingCandidate(t *testing.T) {
	proj := projection.Projection{
		Activities: []string{"a", "b"},
		Variants:   []projection.Variant{{Indices: []int{0, 1}, Count: 10}},
	}
	actCount := ActivityCounts(proj)
	cnds := []Candidate{{A: []int{0}, B: []int{1}}}

	accepted := Prune(cnds, 0.5, 0.9, 0.5, actCount, proj)

	if len(accepted) != 1 {
		t.Fatalf("expected the candidate to be accepted, got %v", accepted)
	}
	if !sameSet(accepted[0].A, []int{0}) || !sameSet(accepted[0].B, []int{1}) {
		t.Errorf("unexpected accepted candidate %+v", accepted[0])
	}
}

func TestComputeBalanceZeroWhenEquallyFrequent(t *testing.T) {
	actCount := []int64{10, 10}
	if b := computeBalance([]int{0}, []int{1}, actCount); b != 0 {
		t.Errorf("expected balance 0, got %v", b)
	}
}

func TestComputeBalancePenalizesSkew(t *testing.T) {
	actCount := []int64{10, 2}
	b := computeBalance([]int{0}, []int{1}, actCount)
	want := 8.0 / 10.0
	if b != want {
		t.Errorf("expected balance %v, got %v", want, b)
	}
}

func TestLocalFitnessRejectsPrematureConsumption(t *testing.T) {
	// "b" occurs without a preceding "a": the place starts empty, so
	// consuming a token for "b" goes negative and the variant doesn't fit.
	proj := projection.Projection{
		Activities: []string{"a", "b"},
		Variants:   []projection.Variant{{Indices: []int{1}, Count: 5}},
	}
	fitness, minPerAct := localFitness([]int{0}, []int{1}, proj, false)
	if fitness != 0 {
		t.Errorf("expected fitness 0, got %v", fitness)
	}
	if minPerAct != 0 {
		t.Errorf("expected min per-activity fitness 0, got %v", minPerAct)
	}
}

func TestPruneDropsDominatedCandidate(t *testing.T) {
	proj := projection.Projection{
		Activities: []string{"a", "b", "c"},
		Variants:   []projection.Variant{{Indices: []int{0, 1, 2}, Count: 10}},
	}
	actCount := ActivityCounts(proj)
	// {0}->{1} is dominated by {0}->{1,2} (same A, strict superset B);
	// with a zero fitness threshold both candidates pass the fitness
	// gate regardless of how well they actually replay, so only the
	// dominance (maximality) filter should decide which one survives.
	cnds := []Candidate{
		{A: []int{0}, B: []int{1}},
		{A: []int{0}, B: []int{1, 2}},
	}
	accepted := Prune(cnds, 1.0, 0.0, 0.0, actCount, proj)
	if len(accepted) != 1 {
		t.Fatalf("expected exactly 1 surviving (maximal) candidate, got %v", accepted)
	}
	if !sameSet(accepted[0].B, []int{1, 2}) {
		t.Errorf("expected the superset candidate to survive, got %+v", accepted[0])
	}
}
