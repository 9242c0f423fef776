package repair

import (
	"fmt"

	"ssw-process-mining/pkg/dfg"
	"ssw-process-mining/pkg/eventlog/projection"
	"ssw-process-mining/pkg/workerpool"
)

// reachablePaths breadth-first-searches the DFG from act, extending
// every path one step at a time and cutting it off (recording it as
// finished) the moment it would revisit an activity already on the
// path — a cycle. Paths that run off the end of the graph without
// ever repeating (dead ends) are dropped, matching the upstream
// behavior of only caring about loop-closing paths.
func reachablePaths(act int, g *dfg.DFG, threshold uint64) [][]int {
	type pathKey string
	toKey := func(p []int) pathKey {
		b := make([]byte, 0, len(p)*4)
		for _, v := range p {
			b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		}
		return pathKey(b)
	}

	current := make(map[pathKey][]int)
	for _, b := range g.Postset(act, threshold) {
		p := []int{act, b}
		current[toKey(p)] = p
	}

	finished := make(map[pathKey][]int)

	for len(current) > 0 {
		next := make(map[pathKey][]int)
		for _, path := range current {
			last := path[len(path)-1]
			for _, b := range g.Postset(last, threshold) {
				if containsInt(path, b) {
					newPath := append(append([]int{}, path...), b)
					finished[toKey(newPath)] = newPath
					continue
				}
				newPath := append(append([]int{}, path...), b)
				next[toKey(newPath)] = newPath
			}
		}
		current = next
	}

	out := make([][]int, 0, len(finished))
	for _, p := range finished {
		out = append(out, p)
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// pairKey identifies a directly-follows pair to insert a silent loop
// activity between.
type pairKey struct{ a, b int }

// Loop inserts a synthetic "skip_loop_<a>_<b>" activity between every
// (a,b) pair that closes a loop reachable from StartActivity without
// passing through EndActivity — requires proj to already carry
// StartActivity/EndActivity.
func Loop(proj projection.Projection, dfThreshold uint64) (projection.Projection, []string) {
	startAct, hasStart := proj.ActToIndex[projection.StartActivity]
	endAct, hasEnd := proj.ActToIndex[projection.EndActivity]
	if !hasStart || !hasEnd {
		panic("repair.Loop: projection must carry both StartActivity and EndActivity")
	}

	g := dfg.Build(proj)
	paths := reachablePaths(startAct, g, dfThreshold)

	pairs := make(map[pairKey]bool)
	for _, path := range paths {
		if path[len(path)-1] == endAct {
			continue
		}
		if len(path) < 2 {
			continue
		}
		a, b := path[len(path)-2], path[len(path)-1]
		if a != b {
			pairs[pairKey{a, b}] = true
		}
	}

	if len(pairs) == 0 {
		return cloneProjection(proj), nil
	}

	ordered := make([]pairKey, 0, len(pairs))
	for p := range pairs {
		ordered = append(ordered, p)
	}
	sortPairs(ordered)

	ret := cloneProjection(proj)
	insertBetween := make(map[pairKey]int, len(ordered))
	newActNames := make([]string, 0, len(ordered))
	base := len(ret.Activities)
	for i, p := range ordered {
		newIdx := base + i
		insertBetween[p] = newIdx
	}
	for _, p := range ordered {
		name := fmt.Sprintf("%sskip_loop_%s_%s", projection.SilentPrefix, proj.Activities[p.a], proj.Activities[p.b])
		ret.Activities = append(ret.Activities, name)
		ret.ActToIndex[name] = insertBetween[p]
		newActNames = append(newActNames, name)
	}

	variants := make([]projection.Variant, len(ret.Variants))
	workerpool.ForEach(indexRange(len(ret.Variants)), 0, func(i int) {
		variants[i] = insertLoops(ret.Variants[i], insertBetween)
	})
	ret.Variants = variants

	return ret, newActNames
}

func insertLoops(v projection.Variant, insertBetween map[pairKey]int) projection.Variant {
	if len(v.Indices) < 2 {
		return v
	}
	out := make([]int, 0, len(v.Indices)+1)
	out = append(out, v.Indices[0])
	for i := 1; i < len(v.Indices); i++ {
		prev, cur := v.Indices[i-1], v.Indices[i]
		if art, ok := insertBetween[pairKey{prev, cur}]; ok {
			out = append(out, art)
		}
		out = append(out, cur)
	}
	return projection.Variant{Indices: out, Count: v.Count}
}

func sortPairs(pairs []pairKey) {
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && less(pairs[j], pairs[j-1]); j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
}

func less(a, b pairKey) bool {
	if a.a != b.a {
		return a.a < b.a
	}
	return a.b < b.b
}
