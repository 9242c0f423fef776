package candidates

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"ssw-process-mining/pkg/eventlog/projection"
	"ssw-process-mining/pkg/workerpool"
)

// ActivityCounts returns, for each activity index, the total weighted
// number of occurrences across all variants of proj.
func ActivityCounts(proj projection.Projection) []int64 {
	counts := make([]int64, len(proj.Activities))
	for _, v := range proj.Variants {
		for _, act := range v.Indices {
			counts[act] += int64(v.Count)
		}
	}
	return counts
}

// computeBalance is the fraction by which a candidate's total preset
// frequency and total postset frequency differ, relative to the
// larger of the two — 0 for a perfectly balanced place, 1 for a place
// whose preset or postset activities never occur at all.
func computeBalance(a, b []int, actCount []int64) float64 {
	var ai, bi int64
	for _, in := range a {
		ai += actCount[in]
	}
	for _, out := range b {
		bi += actCount[out]
	}
	diff := math.Abs(float64(ai - bi))
	maxFreq := float64(ai)
	if bi > ai {
		maxFreq = float64(bi)
	}
	return diff / maxFreq
}

// localFitness replays every variant against a single candidate place
// in isolation: a token is produced whenever an activity in a occurs
// and consumed whenever an activity in b occurs, ignoring any other
// activity. A variant "fits" if no consumption ever goes negative and
// no token is left over at the end. Returns the weighted fraction of
// relevant variants (those containing at least one a/b activity) that
// fit, and the worst per-activity fitness across all a/b activities
// (computed over the variants that mention that activity at all).
//
// In strict mode, an activity appearing in both a and b (a self-loop
// on the place) does not move a token at all — it only requires one
// to already be present — matching the stricter replay used as the
// final acceptance gate after the maximal-candidate pass.
func localFitness(a, b []int, proj projection.Projection, strict bool) (float64, float64) {
	aSet := toSet(a)
	bSet := toSet(b)

	type relevant struct {
		seq  []int
		freq uint64
	}
	byKey := make(map[string]*relevant)
	for _, v := range proj.Variants {
		var filtered []int
		for _, act := range v.Indices {
			if aSet[act] || bSet[act] {
				filtered = append(filtered, act)
			}
		}
		if len(filtered) == 0 {
			continue
		}
		key := intsKey(filtered)
		if r, ok := byKey[key]; ok {
			r.freq += v.Count
		} else {
			byKey[key] = &relevant{seq: filtered, freq: v.Count}
		}
	}

	numTracesContainingAct := make([]uint64, len(proj.Activities))
	numFittingTracesContainingAct := make([]uint64, len(proj.Activities))
	var numFittingTraces, numRelevantTraces int64

	for _, r := range byKey {
		numRelevantTraces += int64(r.freq)

		uniq := uniqueSorted(r.seq)
		for _, act := range uniq {
			numTracesContainingAct[act] += r.freq
		}

		numTokens := 0
		fits := true
		for _, act := range r.seq {
			if strict && aSet[act] && bSet[act] {
				if numTokens <= 0 {
					fits = false
					break
				}
				continue
			}
			if aSet[act] {
				numTokens++
			}
			if bSet[act] {
				numTokens--
			}
			if numTokens < 0 {
				fits = false
				break
			}
		}
		if fits && numTokens == 0 {
			numFittingTraces += int64(r.freq)
			for _, act := range uniq {
				numFittingTracesContainingAct[act] += r.freq
			}
		}
	}

	if numRelevantTraces == 0 {
		return 0, 0
	}

	minPerAct := 0.0
	sawAny := false
	for act, num := range numTracesContainingAct {
		if num == 0 {
			continue
		}
		f := float64(numFittingTracesContainingAct[act]) / float64(num)
		if !sawAny || f < minPerAct {
			minPerAct = f
			sawAny = true
		}
	}
	if !sawAny {
		minPerAct = 0
	}

	return float64(numFittingTraces) / float64(numRelevantTraces), minPerAct
}

// Prune filters candidates down to the accepted set of Petri net
// places: first by balance and local fitness thresholds, then by
// keeping only maximal candidates (those not dominated by a
// superset), then by a final strict-replay threshold.
func Prune(cnds []Candidate, balanceThresh, fitnessThresh, replayThresh float64, actCount []int64, proj projection.Projection) []Candidate {
	balanced := filterCandidates(cnds, func(c Candidate) bool {
		return computeBalance(c.A, c.B, actCount) <= balanceThresh
	})

	fit := filterCandidates(balanced, func(c Candidate) bool {
		fitness, minPerAct := localFitness(c.A, c.B, proj, false)
		return fitness >= fitnessThresh && minPerAct >= fitnessThresh
	})

	maximal := filterCandidates(fit, func(c Candidate) bool {
		for _, other := range fit {
			if len(other.A) >= len(c.A) && len(other.B) >= len(c.B) &&
				(!sameSet(other.A, c.A) || !sameSet(other.B, c.B)) &&
				isSubset(c.A, other.A) && isSubset(c.B, other.B) {
				return false
			}
		}
		return true
	})

	accepted := filterCandidates(maximal, func(c Candidate) bool {
		fitness, minPerAct := localFitness(c.A, c.B, proj, true)
		return tupleGreater(fitness, minPerAct, replayThresh, -1.0)
	})

	sort.Slice(accepted, func(i, j int) bool {
		return candidateKey(accepted[i].A, accepted[i].B) < candidateKey(accepted[j].A, accepted[j].B)
	})
	return accepted
}

// tupleGreater implements the lexicographic (fitness, minPerAct) >
// (replayThresh, -1.0) comparison used as the final acceptance gate.
func tupleGreater(fitness, minPerAct, replayThresh, floor float64) bool {
	if fitness != replayThresh {
		return fitness > replayThresh
	}
	return minPerAct > floor
}

func filterCandidates(cnds []Candidate, keep func(Candidate) bool) []Candidate {
	results := workerpool.MapReduce(cnds, 0, func(c Candidate) []Candidate {
		if keep(c) {
			return []Candidate{c}
		}
		return nil
	}, func(a, b []Candidate) []Candidate {
		return append(a, b...)
	}, nil)
	return results
}

func toSet(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func isSubset(a, b []int) bool {
	bSet := toSet(b)
	for _, x := range a {
		if !bSet[x] {
			return false
		}
	}
	return true
}

func uniqueSorted(xs []int) []int {
	set := toSet(xs)
	out := make([]int, 0, len(set))
	for x := range set {
		out = append(out, x)
	}
	sort.Ints(out)
	return out
}

func intsKey(xs []int) string {
	var sb strings.Builder
	for _, x := range xs {
		sb.WriteString(strconv.Itoa(x))
		sb.WriteByte(',')
	}
	return sb.String()
}
