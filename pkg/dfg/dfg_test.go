package dfg

import (
	"testing"

	"ssw-process-mining/pkg/eventlog/projection"
)

func TestBuildSumsWeightedEdges(t *testing.T) {
	proj := projection.Projection{
		Activities: []string{"a", "b", "c"},
		Variants: []projection.Variant{
			{Indices: []int{0, 1, 2}, Count: 5},
			{Indices: []int{0, 2, 1}, Count: 5},
		},
	}

	g := Build(proj)

	if g.DfBetween(0, 1) != 5 {
		t.Errorf("expected weight 5 for (0,1), got %d", g.DfBetween(0, 1))
	}
	if g.DfBetween(0, 2) != 5 {
		t.Errorf("expected weight 5 for (0,2), got %d", g.DfBetween(0, 2))
	}
	if g.DfBetween(1, 2) != 5 {
		t.Errorf("expected weight 5 for (1,2), got %d", g.DfBetween(1, 2))
	}
	if g.DfBetween(2, 1) != 5 {
		t.Errorf("expected weight 5 for (2,1), got %d", g.DfBetween(2, 1))
	}
	if len(g.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(g.Nodes))
	}
}

func TestBuildSingleActivityVariantProducesNoEdges(t *testing.T) {
	proj := projection.Projection{
		Activities: []string{"a"},
		Variants:   []projection.Variant{{Indices: []int{0}, Count: 1}},
	}
	g := Build(proj)
	if len(g.Edges) != 0 {
		t.Errorf("expected no edges for a single-activity variant, got %d", len(g.Edges))
	}
}

func TestPresetAndPostsetRespectThreshold(t *testing.T) {
	d := &DFG{
		Nodes: []int{0, 1, 2},
		Edges: map[Edge]uint64{
			{0, 1}: 10,
			{0, 2}: 1,
		},
	}

	pre := d.Preset(1, 5)
	if len(pre) != 1 || pre[0] != 0 {
		t.Errorf("expected preset [0], got %v", pre)
	}
	post := d.Postset(0, 5)
	if len(post) != 1 || post[0] != 1 {
		t.Errorf("expected postset [1], got %v", post)
	}
}

func TestFilterDropsEdgeBelowBothRelativeMeans(t *testing.T) {
	// 0->1 weight 100, 0->2 weight 1: mean outgoing from 0 = 50.5.
	// 3->2 weight 100 gives 2 a second, heavier incoming edge: mean
	// incoming to 2 = 50.5. (0,2)'s weight of 1 clears neither mean,
	// so it must be dropped; (0,1) and (3,2) each clear at least one
	// mean trivially (their target/source has no other edge) and
	// survive.
	d := &DFG{
		Nodes: []int{0, 1, 2, 3},
		Edges: map[Edge]uint64{
			{0, 1}: 100,
			{0, 2}: 1,
			{3, 2}: 100,
		},
	}

	filtered := Filter(d, 1, 1.0)

	if _, ok := filtered.Edges[Edge{0, 1}]; !ok {
		t.Error("expected (0,1) to survive")
	}
	if _, ok := filtered.Edges[Edge{3, 2}]; !ok {
		t.Error("expected (3,2) to survive")
	}
	if _, ok := filtered.Edges[Edge{0, 2}]; ok {
		t.Error("expected (0,2) to be filtered: weight 1 clears neither the outgoing mean from 0 (50.5) nor the incoming mean to 2 (50.5)")
	}
}

func TestFilterDropsBelowAbsoluteThreshold(t *testing.T) {
	d := &DFG{
		Nodes: []int{0, 1},
		Edges: map[Edge]uint64{{0, 1}: 2},
	}
	filtered := Filter(d, 5, 0.0)
	if len(filtered.Edges) != 0 {
		t.Errorf("expected edge below absolute threshold to be dropped, got %v", filtered.Edges)
	}
}

func TestFilterPreservesNodes(t *testing.T) {
	d := &DFG{Nodes: []int{0, 1, 2}, Edges: map[Edge]uint64{{0, 1}: 1}}
	filtered := Filter(d, 100, 100)
	if len(filtered.Nodes) != 3 {
		t.Errorf("expected nodes to be preserved even when all edges are filtered, got %v", filtered.Nodes)
	}
}
