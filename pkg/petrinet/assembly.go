package petrinet

import "strings"

// SilentPrefix marks an activity name as synthetic (inserted by log
// repair), which becomes an invisible transition with no label rather
// than a transition carrying the synthetic name.
const SilentPrefix = "__SILENT__"

// Candidate is a place candidate: the activity indices whose
// transitions produce a token into the place (Preset) and the
// activity indices whose transitions consume it (Postset).
type Candidate struct {
	Preset  []int
	Postset []int
}

// Assemble builds a PetriNet from accepted place candidates over an
// activity dictionary. startAct/endAct are the activity indices of
// the log's synthetic start/end markers: a candidate referencing
// startAct in its preset contributes a token to the initial marking
// instead of an arc from a (non-existent) start transition, and
// likewise endAct in a postset contributes to the final marking.
// Transitions are labeled with their activity name, except silent
// activities (SilentPrefix) and the start/end markers themselves,
// which become unlabeled (invisible) or are skipped entirely.
// Transitions left with no label and no arcs after assembly (an
// invisible transition every candidate happened to route around) are
// dropped.
func Assemble(activities []string, startAct, endAct int, candidates []Candidate) *PetriNet {
	pn := New()

	transitions := make([]*TransitionID, len(activities))
	for i, name := range activities {
		if i == startAct || i == endAct {
			continue
		}
		var label *string
		if !strings.HasPrefix(name, SilentPrefix) {
			n := name
			label = &n
		}
		id := pn.AddTransition(label, nil)
		transitions[i] = &id
	}

	initialMarking := Marking{}
	finalMarking := Marking{}

	for _, c := range candidates {
		placeID := pn.AddPlace(nil)
		for _, in := range c.Preset {
			if in == startAct {
				initialMarking[placeID]++
				continue
			}
			pn.AddArc(TransitionToPlaceArc(*transitions[in], placeID), nil)
		}
		for _, out := range c.Postset {
			if out == endAct {
				finalMarking[placeID]++
				continue
			}
			pn.AddArc(PlaceToTransitionArc(placeID, *transitions[out]), nil)
		}
	}

	for id, t := range pn.Transitions {
		tid := TransitionID{UUID: id}
		if t.Label == nil && len(pn.PostsetOfTransition(tid)) == 0 && len(pn.PresetOfTransition(tid)) == 0 {
			delete(pn.Transitions, id)
		}
	}

	pn.InitialMarking = initialMarking
	pn.FinalMarkings = []Marking{finalMarking}
	return pn
}
