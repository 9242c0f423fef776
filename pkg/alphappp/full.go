// Package alphappp orchestrates the Alpha+++ process discovery
// pipeline: log repair, directly-follows filtering, place candidate
// enumeration/pruning, and Petri net assembly.
package alphappp

import (
	"math"
	"time"

	"ssw-process-mining/pkg/alphappp/candidates"
	"ssw-process-mining/pkg/alphappp/repair"
	"ssw-process-mining/pkg/dfg"
	"ssw-process-mining/pkg/eventlog/projection"
	"ssw-process-mining/pkg/petrinet"
)

// AlgoDuration records how long each phase of a discovery run took,
// in seconds, for performance reporting.
type AlgoDuration struct {
	LoopRepair   float64
	SkipRepair   float64
	FilterDFG    float64
	CandBuilding float64
	PruneCand    float64
	BuildNet     float64
	Total        float64
}

// Config holds the tunable parameters of a single Alpha+++ discovery
// run.
type Config struct {
	BalanceThresh float64
	FitnessThresh float64
	ReplayThresh  float64

	// LogRepairSkipDfThreshRel and LogRepairLoopDfThreshRel are
	// multiples of the DFG's mean edge weight, used as the
	// directly-follows threshold for skip/loop repair respectively.
	LogRepairSkipDfThreshRel float64
	LogRepairLoopDfThreshRel float64

	AbsoluteDfCleanThresh uint64
	RelativeDfCleanThresh float64
}

// Discover runs the Alpha+++ discovery pipeline over proj with the
// given configuration, returning the assembled Petri net and a
// breakdown of how long each phase took.
func Discover(proj projection.Projection, config Config) (*petrinet.PetriNet, AlgoDuration) {
	var dur AlgoDuration
	totalStart := time.Now()

	proj = clone(proj)
	proj.AddStartEnd(nil)
	startAct := proj.ActToIndex[projection.StartActivity]
	endAct := proj.ActToIndex[projection.EndActivity]

	rawDFG := dfg.Build(proj)
	meanDFG := meanEdgeWeight(rawDFG)

	loopThresh := uint64(math.Ceil(config.LogRepairLoopDfThreshRel * meanDFG))
	start := time.Now()
	proj, _ = repair.Loop(proj, loopThresh)
	dur.LoopRepair = time.Since(start).Seconds()

	skipThresh := uint64(math.Ceil(config.LogRepairSkipDfThreshRel * meanDFG))
	start = time.Now()
	proj, _ = repair.Skip(proj, skipThresh)
	dur.SkipRepair = time.Since(start).Seconds()

	actCount := candidates.ActivityCounts(proj)

	start = time.Now()
	repairedDFG := dfg.Build(proj)
	filtered := dfg.Filter(repairedDFG, config.AbsoluteDfCleanThresh, config.RelativeDfCleanThresh)
	dur.FilterDFG = time.Since(start).Seconds()

	start = time.Now()
	cnds := candidates.Build(filtered, 1)
	dur.CandBuilding = time.Since(start).Seconds()

	start = time.Now()
	accepted := candidates.Prune(cnds, config.BalanceThresh, config.FitnessThresh, config.ReplayThresh, actCount, proj)
	dur.PruneCand = time.Since(start).Seconds()

	start = time.Now()
	pnCandidates := make([]petrinet.Candidate, len(accepted))
	for i, c := range accepted {
		pnCandidates[i] = petrinet.Candidate{Preset: c.A, Postset: c.B}
	}
	pn := petrinet.Assemble(proj.Activities, startAct, endAct, pnCandidates)
	dur.BuildNet = time.Since(start).Seconds()

	dur.Total = time.Since(totalStart).Seconds()
	return pn, dur
}

func meanEdgeWeight(d *dfg.DFG) float64 {
	if len(d.Edges) == 0 {
		return 0
	}
	var sum uint64
	for _, w := range d.Edges {
		sum += w
	}
	return float64(sum) / float64(len(d.Edges))
}

func clone(p projection.Projection) projection.Projection {
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
