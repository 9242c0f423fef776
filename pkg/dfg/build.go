package dfg

import (
	"ssw-process-mining/pkg/eventlog/projection"
	"ssw-process-mining/pkg/workerpool"
)

// Build constructs a DFG from a projection: map-reduce over variants,
// emitting a weighted edge per adjacent activity-index pair and
// reducing with a summing merge that attaches the smaller map into the
// larger one to minimise rehashing.
func Build(proj projection.Projection) *DFG {
	edges := workerpool.MapReduce(
		proj.Variants,
		0,
		variantEdges,
		mergeSmallerIntoLarger,
		map[Edge]uint64{},
	)

	nodes := make([]int, len(proj.Activities))
	for i := range nodes {
		nodes[i] = i
	}

	return &DFG{Nodes: nodes, Edges: edges}
}

func variantEdges(v projection.Variant) map[Edge]uint64 {
	edges := make(map[Edge]uint64, len(v.Indices))
	for i := 1; i < len(v.Indices); i++ {
		edges[Edge{v.Indices[i-1], v.Indices[i]}] += v.Count
	}
	return edges
}

func mergeSmallerIntoLarger(a, b map[Edge]uint64) map[Edge]uint64 {
	if len(a) < len(b) {
		a, b = b, a
	}
	for e, w := range b {
		a[e] += w
	}
	return a
}
