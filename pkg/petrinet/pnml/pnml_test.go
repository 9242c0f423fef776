package pnml

import (
	"bytes"
	"strings"
	"testing"

	"ssw-process-mining/pkg/petrinet"
)

func buildSampleNet() *petrinet.PetriNet {
	pn := petrinet.New()
	p1 := pn.AddPlace(nil)
	p2 := pn.AddPlace(nil)
	label := "Register"
	t1 := pn.AddTransition(&label, nil)
	t2 := pn.AddTransition(nil, nil) // invisible/silent

	pn.AddArc(petrinet.PlaceToTransitionArc(p1, t1), nil)
	weight := uint32(3)
	pn.AddArc(petrinet.TransitionToPlaceArc(t1, p2), &weight)
	pn.AddArc(petrinet.PlaceToTransitionArc(p2, t2), nil)

	pn.InitialMarking = petrinet.Marking{p1: 1}
	pn.FinalMarkings = []petrinet.Marking{{p2: 1}}
	return pn
}

func TestExportProducesWellFormedPNML(t *testing.T) {
	pn := buildSampleNet()
	var buf bytes.Buffer
	if err := Export(pn, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<pnml>") {
		t.Error("expected output to contain a <pnml> root element")
	}
	if !strings.Contains(out, "$invisible$") {
		t.Error("expected the silent transition to carry the ProM invisible toolspecific tag")
	}
	if !strings.Contains(out, "Register") {
		t.Error("expected the labeled transition's name to be exported")
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	pn := buildSampleNet()
	var buf bytes.Buffer
	if err := Export(pn, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	got, err := Import(&buf)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(got.Places) != len(pn.Places) {
		t.Errorf("expected %d places, got %d", len(pn.Places), len(got.Places))
	}
	if len(got.Transitions) != len(pn.Transitions) {
		t.Errorf("expected %d transitions, got %d", len(pn.Transitions), len(got.Transitions))
	}
	if len(got.Arcs) != len(pn.Arcs) {
		t.Errorf("expected %d arcs, got %d", len(pn.Arcs), len(got.Arcs))
	}
	if got.InitialMarking == nil || len(got.InitialMarking) != 1 {
		t.Errorf("expected a single-place initial marking, got %v", got.InitialMarking)
	}
	if len(got.FinalMarkings) != 1 || len(got.FinalMarkings[0]) != 1 {
		t.Errorf("expected a single final marking with one place, got %v", got.FinalMarkings)
	}

	var sawInvisible, sawLabeled bool
	var sawWeight3 bool
	for _, tr := range got.Transitions {
		if tr.Label == nil {
			sawInvisible = true
		} else if *tr.Label == "Register" {
			sawLabeled = true
		}
	}
	for _, a := range got.Arcs {
		if a.Weight == 3 {
			sawWeight3 = true
		}
	}
	if !sawInvisible {
		t.Error("expected an invisible transition to survive the round trip")
	}
	if !sawLabeled {
		t.Error("expected the \"Register\" transition label to survive the round trip")
	}
	if !sawWeight3 {
		t.Error("expected the weighted arc to survive the round trip")
	}
}

func TestImportRejectsNonPNML(t *testing.T) {
	_, err := Import(strings.NewReader("<not-a-pnml-file/>"))
	if err == nil {
		t.Error("expected an error when no <pnml> root element is present")
	}
}
