// Package petrinet implements the bipartite place/transition graph that
// Alpha+++ discovery assembles from accepted candidates, together with
// marking helpers and PNML import/export (see the pnml subpackage).
package petrinet

import "github.com/google/uuid"

// Place is a node of a Petri net carrying no data beyond its identity.
type Place struct {
	ID uuid.UUID
}

// Transition is a node of a Petri net. A nil Label marks an invisible
// (silent/tau) transition, which has no corresponding activity in the
// source log.
type Transition struct {
	ID    uuid.UUID
	Label *string
}

// PlaceID identifies a Place by its UUID.
type PlaceID struct{ UUID uuid.UUID }

// TransitionID identifies a Transition by its UUID.
type TransitionID struct{ UUID uuid.UUID }

// ArcKind distinguishes the two directions an Arc can run in a
// bipartite Petri net.
type ArcKind int

const (
	// PlaceToTransition connects a place to a transition.
	PlaceToTransition ArcKind = iota
	// TransitionToPlace connects a transition to a place.
	TransitionToPlace
)

// ArcType is the source/target pair of an Arc, tagged with its
// direction so place and transition UUIDs (drawn from the same UUID
// space) are never confused.
type ArcType struct {
	Kind ArcKind
	From uuid.UUID
	To   uuid.UUID
}

// PlaceToTransitionArc builds an ArcType running from a place to a
// transition.
func PlaceToTransitionArc(from PlaceID, to TransitionID) ArcType {
	return ArcType{Kind: PlaceToTransition, From: from.UUID, To: to.UUID}
}

// TransitionToPlaceArc builds an ArcType running from a transition to
// a place.
func TransitionToPlaceArc(from TransitionID, to PlaceID) ArcType {
	return ArcType{Kind: TransitionToPlace, From: from.UUID, To: to.UUID}
}

// Arc connects a place and a transition (in either direction) and
// carries the number of tokens it moves per firing.
type Arc struct {
	FromTo ArcType
	Weight uint32
}

// Marking assigns a token count to places. A place absent from a
// Marking holds zero tokens.
type Marking map[PlaceID]uint64

// PetriNet is a bipartite graph of places and transitions connected by
// arcs, with an optional initial marking and a set of accepted final
// markings (any one of them ends a run).
type PetriNet struct {
	Places         map[uuid.UUID]Place
	Transitions    map[uuid.UUID]Transition
	Arcs           []Arc
	InitialMarking Marking
	FinalMarkings  []Marking
}

// New returns an empty PetriNet.
func New() *PetriNet {
	return &PetriNet{
		Places:      make(map[uuid.UUID]Place),
		Transitions: make(map[uuid.UUID]Transition),
	}
}

// AddPlace inserts a place, generating a fresh UUID unless id is
// non-nil.
func (pn *PetriNet) AddPlace(id *uuid.UUID) PlaceID {
	placeID := uuid.New()
	if id != nil {
		placeID = *id
	}
	pn.Places[placeID] = Place{ID: placeID}
	return PlaceID{UUID: placeID}
}

// AddTransition inserts a transition with the given label (nil for an
// invisible transition), generating a fresh UUID unless id is non-nil.
func (pn *PetriNet) AddTransition(label *string, id *uuid.UUID) TransitionID {
	transitionID := uuid.New()
	if id != nil {
		transitionID = *id
	}
	pn.Transitions[transitionID] = Transition{ID: transitionID, Label: label}
	return TransitionID{UUID: transitionID}
}

// AddArc appends an arc with the given weight (1 if weight is nil).
func (pn *PetriNet) AddArc(fromTo ArcType, weight *uint32) {
	w := uint32(1)
	if weight != nil {
		w = *weight
	}
	pn.Arcs = append(pn.Arcs, Arc{FromTo: fromTo, Weight: w})
}

// PresetOfPlace returns the transitions with an arc into p.
func (pn *PetriNet) PresetOfPlace(p PlaceID) []TransitionID {
	var out []TransitionID
	for _, a := range pn.Arcs {
		if a.FromTo.Kind == TransitionToPlace && a.FromTo.To == p.UUID {
			out = append(out, TransitionID{UUID: a.FromTo.From})
		}
	}
	return out
}

// PostsetOfPlace returns the transitions with an arc out of p.
func (pn *PetriNet) PostsetOfPlace(p PlaceID) []TransitionID {
	var out []TransitionID
	for _, a := range pn.Arcs {
		if a.FromTo.Kind == PlaceToTransition && a.FromTo.From == p.UUID {
			out = append(out, TransitionID{UUID: a.FromTo.To})
		}
	}
	return out
}

// PresetOfTransition returns the places with an arc into t.
func (pn *PetriNet) PresetOfTransition(t TransitionID) []PlaceID {
	var out []PlaceID
	for _, a := range pn.Arcs {
		if a.FromTo.Kind == PlaceToTransition && a.FromTo.To == t.UUID {
			out = append(out, PlaceID{UUID: a.FromTo.From})
		}
	}
	return out
}

// PostsetOfTransition returns the places with an arc out of t.
func (pn *PetriNet) PostsetOfTransition(t TransitionID) []PlaceID {
	var out []PlaceID
	for _, a := range pn.Arcs {
		if a.FromTo.Kind == TransitionToPlace && a.FromTo.From == t.UUID {
			out = append(out, PlaceID{UUID: a.FromTo.To})
		}
	}
	return out
}

// IsInInitialMarking reports whether p carries a token in the initial
// marking.
func (pn *PetriNet) IsInInitialMarking(p PlaceID) bool {
	if pn.InitialMarking == nil {
		return false
	}
	_, ok := pn.InitialMarking[p]
	return ok
}

// IsInAFinalMarking reports whether p carries a token in any accepted
// final marking.
func (pn *PetriNet) IsInAFinalMarking(p PlaceID) bool {
	for _, m := range pn.FinalMarkings {
		if _, ok := m[p]; ok {
			return true
		}
	}
	return false
}
