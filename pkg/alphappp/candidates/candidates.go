// Package candidates enumerates and prunes Petri net place candidates
// from a filtered directly-follows graph, the way the Alpha+++
// discovery pipeline turns a DFG into accepted places.
package candidates

import (
	"sort"
	"strconv"
	"strings"

	"ssw-process-mining/pkg/dfg"
)

// Candidate is an unpruned place candidate: A is the set of activity
// indices whose transitions would feed the place (its preset), B the
// set that would drain it (its postset).
type Candidate struct {
	A []int
	B []int
}

// Build enumerates place candidates from the filtered DFG d. Every
// edge (a,b) in d seeds a candidate {a},{b}, which is then closed to a
// fixed point via the Galois connection between presets and postsets:
// A is tightened to the activities that directly-follow into every
// member of B, B is tightened to the activities that every member of
// A directly-follows into, and the two sides are alternated until
// neither changes. This yields, for each seed edge, the maximal
// (A,B) pair compatible with that edge — duplicates across seeds are
// removed.
func Build(d *dfg.DFG, threshold uint64) []Candidate {
	seen := make(map[string]bool)
	var out []Candidate

	edges := make([]dfg.Edge, 0, len(d.Edges))
	for e := range d.Edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	for _, e := range edges {
		a, b := closeCandidate(d, []int{e.From}, []int{e.To}, threshold)
		key := candidateKey(a, b)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Candidate{A: a, B: b})
	}

	sort.Slice(out, func(i, j int) bool { return candidateKey(out[i].A, out[i].B) < candidateKey(out[j].A, out[j].B) })
	return out
}

// closeCandidate alternates tightening A and B until a fixed point
// is reached, bounded by the number of nodes in the graph (the
// monotone lattice of subsets cannot shrink more times than it has
// elements).
func closeCandidate(d *dfg.DFG, a, b []int, threshold uint64) ([]int, []int) {
	maxIters := len(d.Nodes) + 2
	for i := 0; i < maxIters; i++ {
		newA := intersectPresets(d, b, threshold)
		newB := intersectPostsets(d, newA, threshold)
		if sameSet(newA, a) && sameSet(newB, b) {
			break
		}
		a, b = newA, newB
	}
	sort.Ints(a)
	sort.Ints(b)
	return a, b
}

// intersectPresets returns the activities that directly-follow (at
// threshold) into every activity in targets.
func intersectPresets(d *dfg.DFG, targets []int, threshold uint64) []int {
	if len(targets) == 0 {
		return nil
	}
	counts := make(map[int]int)
	for _, t := range targets {
		for _, n := range d.Preset(t, threshold) {
			counts[n]++
		}
	}
	var out []int
	for n, c := range counts {
		if c == len(targets) {
			out = append(out, n)
		}
	}
	return out
}

// intersectPostsets returns the activities that every activity in
// sources directly-follows into (at threshold).
func intersectPostsets(d *dfg.DFG, sources []int, threshold uint64) []int {
	if len(sources) == 0 {
		return nil
	}
	counts := make(map[int]int)
	for _, s := range sources {
		for _, n := range d.Postset(s, threshold) {
			counts[n]++
		}
	}
	var out []int
	for n, c := range counts {
		if c == len(sources) {
			out = append(out, n)
		}
	}
	return out
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]int{}, a...)
	sb := append([]int{}, b...)
	sort.Ints(sa)
	sort.Ints(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func candidateKey(a, b []int) string {
	var sb strings.Builder
	for _, x := range a {
		sb.WriteString(strconv.Itoa(x))
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	for _, x := range b {
		sb.WriteString(strconv.Itoa(x))
		sb.WriteByte(',')
	}
	return sb.String()
}
