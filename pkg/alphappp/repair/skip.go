// Package repair inserts synthetic skip and loop activities into an
// activity projection based on its directly-follows graph, the way
// the Alpha+++ pipeline prepares a log for candidate enumeration.
package repair

import (
	"fmt"
	"sort"

	"ssw-process-mining/pkg/dfg"
	"ssw-process-mining/pkg/eventlog/projection"
	"ssw-process-mining/pkg/workerpool"
)

// Skip inserts a synthetic "skip_after_<a>" activity wherever an
// activity a has no self-loop but some outgoing edges of a can be
// bypassed: a transition b directly follows a without itself looping
// or returning to a above threshold, and everything reachable from b
// (at threshold) is already reachable from a. Requires proj to
// already carry StartActivity/EndActivity (see
// projection.Projection.AddStartEnd) — the start activity is exempt
// from becoming skippable.
//
// Returns a new projection (the input is left untouched) and the
// names of the artificial activities added, in insertion order.
func Skip(proj projection.Projection, dfThreshold uint64) (projection.Projection, []string) {
	g := dfg.Build(proj)
	startAct := proj.ActToIndex[projection.StartActivity]
	endAct := proj.ActToIndex[projection.EndActivity]

	outFrom := make(map[int]map[int]bool, len(g.Nodes))
	for _, a := range g.Nodes {
		set := make(map[int]bool)
		for _, b := range g.Postset(a, dfThreshold) {
			set[b] = true
		}
		outFrom[a] = set
	}

	skips := make(map[int][]int) // a -> sorted list of activities it can skip to
	for _, a := range g.Nodes {
		if g.DfBetween(a, a) != 0 || a == startAct {
			continue
		}
		outFromA := outFrom[a]
		if len(outFromA) == 0 {
			continue
		}
		var canSkip []int
		for _, b := range g.Nodes {
			if g.DfBetween(a, b) == 0 {
				continue
			}
			if b == endAct || g.DfBetween(b, b) >= dfThreshold || g.DfBetween(b, a) >= dfThreshold {
				continue
			}
			if isSuperset(outFromA, outFrom[b]) {
				canSkip = append(canSkip, b)
			}
		}
		if len(canSkip) > 0 {
			sort.Ints(canSkip)
			skips[a] = canSkip
		}
	}

	if len(skips) == 0 {
		return cloneProjection(proj), nil
	}

	skippableActs := sortedKeys(skips)
	newArtificialActs := make(map[int]int, len(skippableActs)) // a -> new activity index
	ret := cloneProjection(proj)
	newActNames := make([]string, 0, len(skippableActs))
	for i, a := range skippableActs {
		newIdx := len(ret.Activities) + i
		newArtificialActs[a] = newIdx
	}
	for _, a := range skippableActs {
		name := fmt.Sprintf("%sskip_after_%s", projection.SilentPrefix, proj.Activities[a])
		ret.Activities = append(ret.Activities, name)
		ret.ActToIndex[name] = newArtificialActs[a]
		newActNames = append(newActNames, name)
	}

	canSkipSet := make(map[int]map[int]bool, len(skips))
	for a, bs := range skips {
		set := make(map[int]bool, len(bs))
		for _, b := range bs {
			set[b] = true
		}
		canSkipSet[a] = set
	}

	variants := make([]projection.Variant, len(ret.Variants))
	workerpool.ForEach(indexRange(len(ret.Variants)), 0, func(i int) {
		variants[i] = insertSkips(ret.Variants[i], newArtificialActs, canSkipSet)
	})
	ret.Variants = variants

	return ret, newActNames
}

func insertSkips(v projection.Variant, newArtificialActs map[int]int, canSkip map[int]map[int]bool) projection.Variant {
	if len(v.Indices) < 2 {
		return v
	}
	out := make([]int, 0, len(v.Indices)+1)
	out = append(out, v.Indices[0])
	for i := 1; i < len(v.Indices); i++ {
		prev, cur := v.Indices[i-1], v.Indices[i]
		if allowed, ok := canSkip[prev]; ok && !allowed[cur] {
			out = append(out, newArtificialActs[prev])
		}
		out = append(out, cur)
	}
	return projection.Variant{Indices: out, Count: v.Count}
}

func isSuperset(a, b map[int]bool) bool {
	for k := range b {
		if !a[k] {
			return false
		}
	}
	return true
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func indexRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func cloneProjection(p projection.Projection) projection.Projection {
	activities := make([]string, len(p.Activities))
	copy(activities, p.Activities)
	actToIndex := make(map[string]int, len(p.ActToIndex))
	for k, v := range p.ActToIndex {
		actToIndex[k] = v
	}
	variants := make([]projection.Variant, len(p.Variants))
	for i, v := range p.Variants {
		indices := make([]int, len(v.Indices))
		copy(indices, v.Indices)
		variants[i] = projection.Variant{Indices: indices, Count: v.Count}
	}
	return projection.Projection{Activities: activities, ActToIndex: actToIndex, Variants: variants}
}
