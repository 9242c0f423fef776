package pnml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pmerrors "ssw-process-mining/pkg/errors"
	"ssw-process-mining/pkg/petrinet"
)

// mode tracks which PNML element the streaming parser is currently
// inside, mirroring a state machine over start/end tag events.
type mode int

const (
	modeNone mode = iota
	modeNet
	modePlace
	modeTransition
	modePlaceName
	modeTransitionName
	modeInitialMarking
	modeFinalMarkings
	modeFinalMarkingsMarking
	modeFinalMarkingPlace
	modeArc
	modeArcInscription
)

type pendingArc struct {
	from, to string
	weight   uint32
}

// Import parses a PNML document from r into a PetriNet. It implements
// a best-effort reading of the Petri net shapes commonly produced by
// process mining tools: places, transitions, silent transitions (via
// the ProM toolspecific "$invisible$" convention), plain arcs with
// optional weights, a single initial marking and any number of final
// markings.
func Import(r io.Reader) (*petrinet.PetriNet, error) {
	dec := xml.NewDecoder(r)

	pn := petrinet.New()
	initialMarking := petrinet.Marking{}
	var finalMarkings []petrinet.Marking

	idMap := make(map[string]uuid.UUID)
	var currentID *uuid.UUID
	var currentMode mode
	seenPNML := false
	var arcs []pendingArc

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pmerrors.MalformedInputError("pnml", "Import", fmt.Sprintf("xml token: %v", err))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pnml":
				seenPNML = true
				currentMode = modeNet
			case "net", "page":
				currentMode = modeNet
			case "place":
				if currentMode == modeFinalMarkingsMarking {
					idref := attr(t, "idref")
					currentMode = modeFinalMarkingPlace
					if id, ok := idMap[idref]; ok {
						currentID = &id
					} else {
						currentID = nil
					}
				} else {
					currentMode = modePlace
					id := uuid.New()
					idMap[attr(t, "id")] = id
					currentID = &id
					pn.AddPlace(&id)
				}
			case "transition":
				currentMode = modeTransition
				id := uuid.New()
				idMap[attr(t, "id")] = id
				currentID = &id
				empty := ""
				pn.AddTransition(&empty, &id)
			case "arc":
				arcs = append(arcs, pendingArc{from: attr(t, "source"), to: attr(t, "target"), weight: 1})
				currentMode = modeArc
			case "inscription":
				if currentMode == modeArc {
					currentMode = modeArcInscription
				}
			case "toolspecific":
				if attr(t, "activity") == "$invisible$" && currentID != nil {
					if tr, ok := pn.Transitions[*currentID]; ok {
						tr.Label = nil
						pn.Transitions[*currentID] = tr
					}
				}
			case "initialMarking":
				currentMode = modeInitialMarking
			case "finalmarkings":
				currentMode = modeFinalMarkings
			case "marking":
				if currentMode == modeFinalMarkings {
					currentMode = modeFinalMarkingsMarking
					finalMarkings = append(finalMarkings, petrinet.Marking{})
				}
			case "name":
				switch currentMode {
				case modePlace:
					currentMode = modePlaceName
				case modeTransition:
					currentMode = modeTransitionName
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "place":
				if currentMode == modeFinalMarkingPlace {
					currentMode = modeFinalMarkingsMarking
				} else {
					currentMode = modeNet
				}
				currentID = nil
			case "transition":
				currentMode = modeNet
				currentID = nil
			case "initialMarking":
				currentMode = modePlace
			case "finalmarkings":
				currentMode = modeNet
			case "marking":
				currentMode = modeFinalMarkings
			case "inscription":
				if currentMode == modeArcInscription {
					currentMode = modeArc
				}
			case "arc":
				currentMode = modeNet
			case "name":
				switch currentMode {
				case modePlaceName:
					currentMode = modePlace
				case modeTransitionName:
					currentMode = modeTransition
				}
			}
		case xml.CharData:
			txt := strings.TrimSpace(string(t))
			if txt == "" {
				continue
			}
			switch currentMode {
			case modeTransitionName:
				if currentID != nil {
					if tr, ok := pn.Transitions[*currentID]; ok && tr.Label != nil {
						label := txt
						tr.Label = &label
						pn.Transitions[*currentID] = tr
					}
				}
			case modeInitialMarking:
				if currentID != nil {
					if _, ok := pn.Places[*currentID]; ok {
						n, _ := strconv.ParseUint(txt, 10, 64)
						initialMarking[petrinet.PlaceID{UUID: *currentID}] = n
					}
				}
			case modeFinalMarkingPlace:
				if currentID != nil && len(finalMarkings) > 0 {
					n, _ := strconv.ParseUint(txt, 10, 64)
					finalMarkings[len(finalMarkings)-1][petrinet.PlaceID{UUID: *currentID}] = n
				}
			case modeArcInscription:
				if len(arcs) > 0 {
					n, err := strconv.ParseUint(txt, 10, 32)
					if err == nil {
						arcs[len(arcs)-1].weight = uint32(n)
					}
				}
			}
		}
	}

	if !seenPNML {
		return nil, pmerrors.MalformedInputError("pnml", "Import", "no <pnml> root element found")
	}

	for _, a := range arcs {
		fromID, fromOK := idMap[a.from]
		toID, toOK := idMap[a.to]
		if !fromOK || !toOK {
			continue
		}
		weight := a.weight
		if _, ok := pn.Places[fromID]; ok {
			if _, ok := pn.Transitions[toID]; ok {
				pn.AddArc(petrinet.PlaceToTransitionArc(petrinet.PlaceID{UUID: fromID}, petrinet.TransitionID{UUID: toID}), &weight)
				continue
			}
		}
		if _, ok := pn.Transitions[fromID]; ok {
			if _, ok := pn.Places[toID]; ok {
				pn.AddArc(petrinet.TransitionToPlaceArc(petrinet.TransitionID{UUID: fromID}, petrinet.PlaceID{UUID: toID}), &weight)
			}
		}
	}

	if len(initialMarking) > 0 {
		pn.InitialMarking = initialMarking
	}
	if len(finalMarkings) > 0 {
		pn.FinalMarkings = finalMarkings
	}
	return pn, nil
}

// ImportFile reads and parses the PNML file at path.
func ImportFile(path string) (*petrinet.PetriNet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pmerrors.IOError("pnml", "ImportFile", fmt.Sprintf("open %s: %v", path, err))
	}
	defer f.Close()
	return Import(f)
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
