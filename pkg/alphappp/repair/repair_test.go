package repair

import (
	"testing"

	"ssw-process-mining/pkg/eventlog/projection"
)

func withStartEnd(acts []string, traces [][]string) projection.Projection {
	activities := append([]string{}, acts...)
	actToIndex := make(map[string]int, len(activities))
	for i, a := range activities {
		actToIndex[a] = i
	}
	variants := make([]projection.Variant, 0, len(traces))
	for _, t := range traces {
		indices := make([]int, len(t))
		for i, a := range t {
			indices[i] = actToIndex[a]
		}
		variants = append(variants, projection.Variant{Indices: indices, Count: 1})
	}
	return projection.Projection{Activities: activities, ActToIndex: actToIndex, Variants: variants}
}

func TestSkipInsertsSilentActivityWhenBypassPossible(t *testing.T) {
	// Log [<a,b,c>x8, <a,c>x2] (spec worked example S3): "a" is
	// skippable to "b" since everything reachable from "b" (namely
	// "c") is already reachable from "a", so the rarer <a,c> variant
	// gets a silent activity inserted in place of the missing "b".
	acts := []string{projection.StartActivity, "a", "b", "c", projection.EndActivity}
	var traces [][]string
	for i := 0; i < 8; i++ {
		traces = append(traces, []string{projection.StartActivity, "a", "b", "c", projection.EndActivity})
	}
	for i := 0; i < 2; i++ {
		traces = append(traces, []string{projection.StartActivity, "a", "c", projection.EndActivity})
	}
	proj := withStartEnd(acts, traces)

	repaired, newActs := Skip(proj, 2)

	if len(newActs) == 0 {
		t.Fatal("expected at least one silent skip activity to be inserted")
	}
	for _, name := range newActs {
		if len(name) < len(projection.SilentPrefix) || name[:len(projection.SilentPrefix)] != projection.SilentPrefix {
			t.Errorf("expected silent activity name to carry the silent prefix, got %q", name)
		}
	}
	if len(repaired.Activities) <= len(proj.Activities) {
		t.Error("expected repaired projection to carry more activities than the input")
	}

	artIdx := repaired.ActToIndex[newActs[0]]
	foundInShortVariant := false
	for _, v := range repaired.Variants {
		if len(v.Indices) == 5 {
			for _, idx := range v.Indices {
				if idx == artIdx {
					foundInShortVariant = true
				}
			}
		}
	}
	if !foundInShortVariant {
		t.Error("expected the silent activity to be inserted into the <a,c> variant")
	}
}

func TestSkipIsNoOpWhenNoSkippablePattern(t *testing.T) {
	acts := []string{projection.StartActivity, "a", projection.EndActivity}
	proj := withStartEnd(acts, [][]string{
		{projection.StartActivity, "a", projection.EndActivity},
	})

	repaired, newActs := Skip(proj, 1)
	if len(newActs) != 0 {
		t.Errorf("expected no artificial activities, got %v", newActs)
	}
	if len(repaired.Activities) != len(proj.Activities) {
		t.Error("expected activity dictionary to be unchanged")
	}
}

func TestLoopInsertsSilentActivityForLoopingPath(t *testing.T) {
	// __START -> a -> b -> a -> b -> __END (a loops back to itself via b)
	acts := []string{projection.StartActivity, "a", "b", projection.EndActivity}
	proj := withStartEnd(acts, [][]string{
		{projection.StartActivity, "a", "b", "a", "b", projection.EndActivity},
		{projection.StartActivity, "a", "b", "a", "b", projection.EndActivity},
		{projection.StartActivity, "a", "b", projection.EndActivity},
	})

	repaired, newActs := Loop(proj, 2)

	if len(newActs) == 0 {
		t.Fatal("expected at least one silent loop activity to be inserted")
	}
	if len(repaired.Activities) <= len(proj.Activities) {
		t.Error("expected repaired projection to carry more activities than the input")
	}
}

func TestLoopPanicsWithoutStartEnd(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Loop to panic when Start/End activities are absent")
		}
	}()
	proj := projection.Projection{
		Activities: []string{"a"},
		ActToIndex: map[string]int{"a": 0},
		Variants:   []projection.Variant{{Indices: []int{0}, Count: 1}},
	}
	Loop(proj, 1)
}
