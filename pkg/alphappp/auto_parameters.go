package alphappp

import (
	"ssw-process-mining/pkg/eventlog/projection"
	"ssw-process-mining/pkg/petrinet"
)

// autoConfigs is the fixed grid of parameter combinations tried by
// DiscoverWithAutoParameters, in the order they are tried; on equal
// scores the earlier entry wins.
var autoConfigs = []Config{
	{BalanceThresh: 0.6, FitnessThresh: 0.4, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 4.0, LogRepairLoopDfThreshRel: 4.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
	{BalanceThresh: 0.6, FitnessThresh: 0.4, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 2.0, LogRepairLoopDfThreshRel: 2.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
	{BalanceThresh: 0.4, FitnessThresh: 0.6, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 4.0, LogRepairLoopDfThreshRel: 4.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
	{BalanceThresh: 0.4, FitnessThresh: 0.6, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 2.0, LogRepairLoopDfThreshRel: 2.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
	{BalanceThresh: 0.4, FitnessThresh: 0.6, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 2.0, LogRepairLoopDfThreshRel: 2.0, AbsoluteDfCleanThresh: 5, RelativeDfCleanThresh: 0.05},
	{BalanceThresh: 0.1, FitnessThresh: 0.8, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 2.0, LogRepairLoopDfThreshRel: 2.0, AbsoluteDfCleanThresh: 5, RelativeDfCleanThresh: 0.05},
	{BalanceThresh: 0.25, FitnessThresh: 0.75, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 2.0, LogRepairLoopDfThreshRel: 2.0, AbsoluteDfCleanThresh: 25, RelativeDfCleanThresh: 0.1},
	{BalanceThresh: 0.1, FitnessThresh: 0.8, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 4.0, LogRepairLoopDfThreshRel: 4.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
	{BalanceThresh: 0.1, FitnessThresh: 0.8, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 2.0, LogRepairLoopDfThreshRel: 2.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
	{BalanceThresh: 0.1, FitnessThresh: 0.9, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 4.0, LogRepairLoopDfThreshRel: 4.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
	{BalanceThresh: 0.1, FitnessThresh: 0.9, ReplayThresh: 0.0, LogRepairSkipDfThreshRel: 2.0, LogRepairLoopDfThreshRel: 2.0, AbsoluteDfCleanThresh: 1, RelativeDfCleanThresh: 0.01},
}

// DiscoverWithAutoParameters runs Discover once per entry of the
// built-in parameter grid and returns the result scoring best: the
// fraction of labeled transitions that are "well connected" (every
// labeled transition's preset and postset places each touch either a
// marking or another labeled transition), weighted by how
// conservative the winning configuration's thresholds were.
func DiscoverWithAutoParameters(proj projection.Projection) (Config, *petrinet.PetriNet) {
	var bestConfig Config
	var bestScore float64
	var bestNet *petrinet.PetriNet
	first := true

	for _, c := range autoConfigs {
		pn, _ := Discover(proj, c)
		score := scoreDiscoveredNet(pn, c)
		if first || score > bestScore {
			bestConfig, bestScore, bestNet = c, score, pn
			first = false
		}
	}
	return bestConfig, bestNet
}

func scoreDiscoveredNet(pn *petrinet.PetriNet, config Config) float64 {
	labeledCount := 0
	disconnected := 0
	for id, t := range pn.Transitions {
		if t.Label == nil {
			continue
		}
		labeledCount++
		tid := petrinet.TransitionID{UUID: id}
		if !isTransitionWellConnected(pn, tid) {
			disconnected++
		}
	}
	if labeledCount == 0 {
		return 0
	}
	frac := 1.0 - float64(disconnected)/float64(labeledCount)
	return config.FitnessThresh * (1.0 - config.BalanceThresh) * (frac * frac)
}

func isTransitionWellConnected(pn *petrinet.PetriNet, t petrinet.TransitionID) bool {
	presetConnected := false
	for _, p := range pn.PresetOfTransition(t) {
		if pn.IsInInitialMarking(p) || pn.IsInAFinalMarking(p) || placeTouchesLabeledTransition(pn, pn.PresetOfPlace(p)) {
			presetConnected = true
			break
		}
	}
	if !presetConnected {
		return false
	}

	postsetConnected := false
	for _, p := range pn.PostsetOfTransition(t) {
		if pn.IsInInitialMarking(p) || pn.IsInAFinalMarking(p) || placeTouchesLabeledTransition(pn, pn.PostsetOfPlace(p)) {
			postsetConnected = true
			break
		}
	}
	return postsetConnected
}

func placeTouchesLabeledTransition(pn *petrinet.PetriNet, transitions []petrinet.TransitionID) bool {
	for _, t := range transitions {
		if tr, ok := pn.Transitions[t.UUID]; ok && tr.Label != nil {
			return true
		}
	}
	return false
}
