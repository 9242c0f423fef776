package ocdeclare

import (
	"sort"

	"ssw-process-mining/pkg/ocel/linked"
	"ssw-process-mining/pkg/workerpool"
)

// O2OMode controls whether and how object-to-object relationships are
// considered as candidate associations during discovery.
type O2OMode int

const (
	O2ONone O2OMode = iota
	O2ODirect
	O2OReversed
	O2OBidirectional
)

// ReductionMode controls how discovered arcs are reduced for
// redundancy once the direct search completes.
type ReductionMode int

const (
	ReductionNone ReductionMode = iota
	ReductionLossless
	ReductionLossy
)

// DiscoveryOptions configures a Discover run.
type DiscoveryOptions struct {
	NoiseThreshold      float64
	O2OMode             O2OMode
	ActsToUse           []string // nil means every event type in the OCEL
	CountsForGeneration Counts
	CountsForFilter     Counts
	Reduction           ReductionMode
	ConsideredArcTypes  map[ArcType]bool
}

// DefaultDiscoveryOptions mirrors the reference implementation's
// defaults: 20% noise tolerance, no O2O consideration, candidate
// generation requiring at least one satisfying target, and a filter
// window of 1 to 20 satisfying targets.
func DefaultDiscoveryOptions() DiscoveryOptions {
	one := 1
	twenty := 20
	return DiscoveryOptions{
		NoiseThreshold:      0.2,
		O2OMode:             O2ONone,
		CountsForGeneration: Counts{Min: &one},
		CountsForFilter:     Counts{Min: &one, Max: &twenty},
		Reduction:           ReductionNone,
		ConsideredArcTypes:  map[ArcType]bool{AS: true, EF: true, EP: true, DF: true, DP: true},
	}
}

type assocCandidate struct {
	Assoc    ObjectTypeAssociation
	Multiple bool
}

// activityObjectInvolvements returns, for each event type, the maximum
// number of distinct objects of each object type related to any single
// event of that type.
func activityObjectInvolvements(l *linked.LinkedOCEL) map[string]map[string]int {
	res := make(map[string]map[string]int)
	for _, et := range l.EventTypes() {
		perType := make(map[string]int)
		for _, evIdx := range l.EventsPerType[et.Name] {
			counts := make(map[string]int)
			for _, qo := range l.E2O(evIdx) {
				counts[l.Object(qo.Object).ObjectType]++
			}
			for ot, c := range counts {
				if c > perType[ot] {
					perType[ot] = c
				}
			}
		}
		res[et.Name] = perType
	}
	return res
}

// objectToObjectInvolvements returns, for each object type, the
// maximum number of distinct objects of each other type related to any
// single object of that type via the forward O2O index (reverse=true
// uses the reverse O2O index instead).
func objectToObjectInvolvements(l *linked.LinkedOCEL, reverse bool) map[string]map[string]int {
	res := make(map[string]map[string]int)
	for _, ot := range l.ObjectTypes() {
		perType := make(map[string]int)
		for _, objIdx := range l.ObjectsPerType[ot.Name] {
			counts := make(map[string]int)
			rels := l.O2O(objIdx)
			if reverse {
				rels = l.O2ORev(objIdx)
			}
			for _, qo := range rels {
				counts[l.Object(qo.Object).ObjectType]++
			}
			for ot2, c := range counts {
				if c > perType[ot2] {
					perType[ot2] = c
				}
			}
		}
		res[ot.Name] = perType
	}
	return res
}

func directOrIndirectInvolvements(act1, act2 string, actObjInv, objObjInv, objObjRevInv map[string]map[string]int, mode O2OMode) []assocCandidate {
	act1obs := actObjInv[act1]
	act2obs := actObjInv[act2]
	var res []assocCandidate

	var act1Types []string
	for ot := range act1obs {
		act1Types = append(act1Types, ot)
	}
	sort.Strings(act1Types)

	for _, ot := range act1Types {
		if _, ok := act2obs[ot]; ok {
			res = append(res, assocCandidate{Assoc: SimpleAssociation(ot), Multiple: act1obs[ot] > 1})
		}
	}

	addHops := func(byType map[string]map[string]int, reversed bool) {
		for _, ot1 := range act1Types {
			var ot2s []string
			for ot2 := range byType[ot1] {
				ot2s = append(ot2s, ot2)
			}
			sort.Strings(ot2s)
			for _, ot2 := range ot2s {
				if _, ok := act2obs[ot2]; !ok {
					continue
				}
				multiple := byType[ot1][ot2] > 1 || act1obs[ot1] > 1
				res = append(res, assocCandidate{Assoc: O2OAssociation(ot1, ot2, reversed), Multiple: multiple})
			}
		}
	}
	if mode == O2ODirect || mode == O2OBidirectional {
		addHops(objObjInv, false)
	}
	if mode == O2OReversed || mode == O2OBidirectional {
		addHops(objObjRevInv, true)
	}
	return res
}

// satisfiesAS reports whether the given label holds as an AS arc from
// act1 to act2 under the generation counts, within noise threshold.
func satisfiesAS(l *linked.LinkedOCEL, act1, act2 string, label ArcLabel, counts Counts, noise float64) bool {
	arc := Arc{From: act1, To: act2, ArcType: AS, Label: label, Counts: counts}
	return WithinThreshold(l, arc, noise)
}

func dedupLabels(labels []ArcLabel) []ArcLabel {
	var out []ArcLabel
	for _, l := range labels {
		dup := false
		for _, o := range out {
			if l.Equal(o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	return out
}

// pruneDominatedKeepNew removes from old any label dominated by one of
// newOnes, then appends newOnes.
func pruneDominatedKeepNew(old, newOnes []ArcLabel) []ArcLabel {
	var kept []ArcLabel
	for _, o := range old {
		dominated := false
		for _, n := range newOnes {
			if !o.Equal(n) && o.IsDominatedBy(n) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, o)
		}
	}
	return append(kept, newOnes...)
}

func pruneDominated(labels []ArcLabel) []ArcLabel {
	var kept []ArcLabel
	for i, l := range labels {
		dominated := false
		for j, other := range labels {
			if i == j || l.Equal(other) {
				continue
			}
			if l.IsDominatedBy(other) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, l)
		}
	}
	return kept
}

// combineAndPrune generates candidate labels of increasing size by
// unioning pairs of surviving labels, testing each union as an AS arc,
// and iterating until no new label passes, then keeps only the
// non-dominated survivors.
func combineAndPrune(candidates []ArcLabel, act1, act2 string, l *linked.LinkedOCEL, opts DiscoveryOptions) []ArcLabel {
	all := append([]ArcLabel{}, candidates...)
	current := candidates
	iteration := 1
	for {
		var newOnes []ArcLabel
		for i := 0; i < len(current); i++ {
			for j := i + 1; j < len(current); j++ {
				a, b := current[i], current[j]
				if a.IsDominatedBy(b) || b.IsDominatedBy(a) {
					continue
				}
				combined := a.Combine(b)
				if combined.Size() != iteration+1 {
					continue
				}
				if satisfiesAS(l, act1, act2, combined, opts.CountsForGeneration, opts.NoiseThreshold) {
					newOnes = append(newOnes, combined)
				}
			}
		}
		newOnes = dedupLabels(newOnes)
		if len(newOnes) == 0 {
			break
		}
		all = pruneDominatedKeepNew(all, newOnes)
		current = newOnes
		iteration++
	}
	return pruneDominated(all)
}

// stricterArcsForAS tests progressively stricter arc types for an arc
// already known to hold as AS, in the order EF -> DF, EP -> DP,
// falling back to AS itself (for act1 != act2) if nothing stricter
// holds, mirroring the reference's arrow-strengthening pass.
func stricterArcsForAS(a Arc, opts DiscoveryOptions, l *linked.LinkedOCEL) []Arc {
	var ret []Arc

	if opts.ConsideredArcTypes[EF] {
		a.ArcType = EF
		if WithinThreshold(l, a, opts.NoiseThreshold) {
			a.ArcType = DF
			if opts.ConsideredArcTypes[DF] && WithinThreshold(l, a, opts.NoiseThreshold) {
				ret = append(ret, a)
			} else {
				a.ArcType = EF
				ret = append(ret, a)
			}
		}
	} else if opts.ConsideredArcTypes[DF] {
		a.ArcType = DF
		if WithinThreshold(l, a, opts.NoiseThreshold) {
			ret = append(ret, a)
		}
	}

	if opts.ConsideredArcTypes[EP] {
		a.ArcType = EP
		if WithinThreshold(l, a, opts.NoiseThreshold) {
			a.ArcType = DP
			if opts.ConsideredArcTypes[DP] && WithinThreshold(l, a, opts.NoiseThreshold) {
				ret = append(ret, a)
			} else {
				a.ArcType = EP
				ret = append(ret, a)
			}
		}
	} else if opts.ConsideredArcTypes[DP] {
		a.ArcType = DP
		if WithinThreshold(l, a, opts.NoiseThreshold) {
			ret = append(ret, a)
		}
	}

	if len(ret) == 0 && opts.ConsideredArcTypes[AS] && a.From != a.To {
		a.ArcType = AS
		if WithinThreshold(l, a, opts.NoiseThreshold) {
			ret = append(ret, a)
		}
	}
	return ret
}

func discoverForPair(act1, act2 string, actObjInv, objObjInv, objObjRevInv map[string]map[string]int, l *linked.LinkedOCEL, opts DiscoveryOptions) []Arc {
	involvements := directOrIndirectInvolvements(act1, act2, actObjInv, objObjInv, objObjRevInv, opts.O2OMode)

	var candidates []ArcLabel
	for _, inv := range involvements {
		anyLabel := ArcLabel{Any: []ObjectTypeAssociation{inv.Assoc}}
		if !satisfiesAS(l, act1, act2, anyLabel, opts.CountsForGeneration, opts.NoiseThreshold) {
			continue
		}
		if !inv.Multiple {
			candidates = append(candidates, ArcLabel{Each: []ObjectTypeAssociation{inv.Assoc}})
			continue
		}
		candidates = append(candidates, anyLabel)
		eachLabel := ArcLabel{Each: []ObjectTypeAssociation{inv.Assoc}}
		if satisfiesAS(l, act1, act2, eachLabel, opts.CountsForGeneration, opts.NoiseThreshold) {
			candidates = append(candidates, eachLabel)
			allLabel := ArcLabel{All: []ObjectTypeAssociation{inv.Assoc}}
			if satisfiesAS(l, act1, act2, allLabel, opts.CountsForGeneration, opts.NoiseThreshold) {
				candidates = append(candidates, allLabel)
			}
		}
	}

	survivors := combineAndPrune(candidates, act1, act2, l, opts)

	var arcs []Arc
	for _, label := range survivors {
		arc := Arc{From: act1, To: act2, ArcType: AS, Label: label, Counts: opts.CountsForFilter}
		if !WithinThreshold(l, arc, opts.NoiseThreshold) {
			continue
		}
		arc.Counts.Max = nil
		arcs = append(arcs, stricterArcsForAS(arc, opts, l)...)
	}
	return arcs
}

// Discover runs OC-DECLARE constraint discovery over l: for every
// ordered pair of event types, it generates and tests candidate
// object-type labels, strengthens each surviving label's arc type, and
// optionally reduces the resulting constraint set.
func Discover(l *linked.LinkedOCEL, opts DiscoveryOptions) []Arc {
	actObjInv := activityObjectInvolvements(l)
	objObjInv := objectToObjectInvolvements(l, false)
	objObjRevInv := objectToObjectInvolvements(l, true)

	acts := opts.ActsToUse
	if acts == nil {
		for et := range l.EventsPerType {
			acts = append(acts, et)
		}
		sort.Strings(acts)
	}

	type pair struct{ act1, act2 string }
	var pairs []pair
	for _, a1 := range acts {
		for _, a2 := range acts {
			pairs = append(pairs, pair{a1, a2})
		}
	}

	allArcs := workerpool.MapReduce(pairs, 0, func(p pair) []Arc {
		return discoverForPair(p.act1, p.act2, actObjInv, objObjInv, objObjRevInv, l, opts)
	}, func(a, b []Arc) []Arc { return append(a, b...) }, nil)

	switch opts.Reduction {
	case ReductionLossless:
		return ReduceArcs(allArcs, true)
	case ReductionLossy:
		return ReduceArcs(allArcs, false)
	default:
		return allArcs
	}
}
