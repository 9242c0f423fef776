package dfg

// Filter retains an edge (a,b)->w iff w is at least absoluteThreshold
// AND w is at least relativeThreshold times the mean weight of edges
// outgoing from a, OR at least relativeThreshold times the mean
// weight of edges incoming to b — both means taken over the
// *unfiltered* graph. Nodes are preserved unchanged.
func Filter(d *DFG, absoluteThreshold uint64, relativeThreshold float64) *DFG {
	outMeanByNode := meanOutgoingByNode(d)
	inMeanByNode := meanIncomingByNode(d)

	filtered := make(map[Edge]uint64, len(d.Edges))
	for e, w := range d.Edges {
		if w < absoluteThreshold {
			continue
		}
		wf := float64(w)
		if wf >= relativeThreshold*outMeanByNode[e.From] || wf >= relativeThreshold*inMeanByNode[e.To] {
			filtered[e] = w
		}
	}

	nodes := make([]int, len(d.Nodes))
	copy(nodes, d.Nodes)
	return &DFG{Nodes: nodes, Edges: filtered}
}

func meanOutgoingByNode(d *DFG) map[int]float64 {
	sum := make(map[int]uint64)
	count := make(map[int]uint64)
	for e, w := range d.Edges {
		sum[e.From] += w
		count[e.From]++
	}
	return meanFrom(sum, count)
}

func meanIncomingByNode(d *DFG) map[int]float64 {
	sum := make(map[int]uint64)
	count := make(map[int]uint64)
	for e, w := range d.Edges {
		sum[e.To] += w
		count[e.To]++
	}
	return meanFrom(sum, count)
}

func meanFrom(sum, count map[int]uint64) map[int]float64 {
	means := make(map[int]float64, len(sum))
	for node, s := range sum {
		c := count[node]
		if c == 0 {
			continue
		}
		means[node] = float64(s) / float64(c)
	}
	return means
}
