// Package pnml reads and writes Petri nets in the PNML interchange
// format, round-tripping through the same page/place/transition/arc
// shape and the ProM "$invisible$" toolspecific convention used to
// mark silent transitions.
package pnml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"ssw-process-mining/pkg/petrinet"
)

type text struct {
	Text string `xml:",chardata"`
}

type pName struct {
	Text text `xml:"text"`
}

type toolspecific struct {
	Tool        string `xml:"tool,attr"`
	Version     string `xml:"version,attr"`
	Activity    string `xml:"activity,attr"`
	LocalNodeID string `xml:"localNodeID,attr"`
}

type xmlPlace struct {
	ID             string `xml:"id,attr"`
	Name           pName  `xml:"name"`
	InitialMarking *text  `xml:"initialMarking>text,omitempty"`
}

type xmlTransition struct {
	ID           string        `xml:"id,attr"`
	Name         pName         `xml:"name"`
	ToolSpecific *toolspecific `xml:"toolspecific,omitempty"`
}

type xmlArc struct {
	ID          string `xml:"id,attr"`
	Source      string `xml:"source,attr"`
	Target      string `xml:"target,attr"`
	Inscription pName  `xml:"inscription"`
}

type xmlPage struct {
	ID          string          `xml:"id,attr"`
	Places      []xmlPlace      `xml:"place"`
	Transitions []xmlTransition `xml:"transition"`
	Arcs        []xmlArc        `xml:"arc"`
}

type markingPlace struct {
	IDRef string `xml:"idref,attr"`
	Text  text   `xml:"text"`
}

type xmlMarking struct {
	Places []markingPlace `xml:"place"`
}

type xmlFinalMarkings struct {
	Markings []xmlMarking `xml:"marking"`
}

type xmlNet struct {
	ID            string            `xml:"id,attr"`
	Type          string            `xml:"type,attr"`
	Page          xmlPage           `xml:"page"`
	FinalMarkings *xmlFinalMarkings `xml:"finalmarkings,omitempty"`
}

type xmlPNML struct {
	XMLName xml.Name `xml:"pnml"`
	Net     xmlNet   `xml:"net"`
}

// Export writes pn in PNML format to w.
func Export(pn *petrinet.PetriNet, w io.Writer) error {
	net := xmlNet{
		ID:   "ssw-process-mining Petri net export",
		Type: "http://www.pnml.org/version-2009/grammar/pnmlcoremodel",
		Page: xmlPage{ID: "n0"},
	}

	placeIDs := sortedUUIDs(pn.Places)
	for _, id := range placeIDs {
		p := xmlPlace{ID: id.String(), Name: pName{Text: text{Text: id.String()}}}
		if pn.InitialMarking != nil {
			if tokens, ok := pn.InitialMarking[petrinet.PlaceID{UUID: id}]; ok {
				p.InitialMarking = &text{Text: strconv.FormatUint(tokens, 10)}
			}
		}
		net.Page.Places = append(net.Page.Places, p)
	}

	transIDs := sortedUUIDs(pn.Transitions)
	for _, id := range transIDs {
		tr := pn.Transitions[id]
		label := "Tau"
		if tr.Label != nil {
			label = *tr.Label
		}
		xt := xmlTransition{ID: id.String(), Name: pName{Text: text{Text: label}}}
		if tr.Label == nil {
			xt.ToolSpecific = &toolspecific{
				Tool:        "ProM",
				Version:     "6.4",
				Activity:    "$invisible$",
				LocalNodeID: uuid.New().String(),
			}
		}
		net.Page.Transitions = append(net.Page.Transitions, xt)
	}

	for _, a := range pn.Arcs {
		var source, target string
		switch a.FromTo.Kind {
		case petrinet.PlaceToTransition:
			source, target = a.FromTo.From.String(), a.FromTo.To.String()
		case petrinet.TransitionToPlace:
			source, target = a.FromTo.From.String(), a.FromTo.To.String()
		}
		net.Page.Arcs = append(net.Page.Arcs, xmlArc{
			ID:          source + target,
			Source:      source,
			Target:      target,
			Inscription: pName{Text: text{Text: strconv.FormatUint(uint64(a.Weight), 10)}},
		})
	}

	if pn.FinalMarkings != nil {
		fm := &xmlFinalMarkings{}
		for _, marking := range pn.FinalMarkings {
			m := xmlMarking{}
			ids := make([]uuid.UUID, 0, len(marking))
			for pid := range marking {
				ids = append(ids, pid.UUID)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
			for _, pid := range ids {
				m.Places = append(m.Places, markingPlace{
					IDRef: pid.String(),
					Text:  text{Text: strconv.FormatUint(marking[petrinet.PlaceID{UUID: pid}], 10)},
				})
			}
			fm.Markings = append(fm.Markings, m)
		}
		net.FinalMarkings = fm
	}

	doc := xmlPNML{Net: net}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("pnml: encode: %w", err)
	}
	return nil
}

// ExportFile writes pn in PNML format to the file at path, creating
// or truncating it.
func ExportFile(pn *petrinet.PetriNet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pnml: create %s: %w", path, err)
	}
	defer f.Close()
	return Export(pn, f)
}

func sortedUUIDs[V any](m map[uuid.UUID]V) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
