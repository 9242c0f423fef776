package ocdeclare

// ReduceArcs removes an arc c: A -> C whenever there exist a: A -> B
// and b: B -> C in arcs with A != B, B != C's endpoints mismatched (B
// is a's target and b's source), a and b each at least as strict as
// c, and c's label dominated by both a's and b's labels — c is then
// implied by composing a and b. Lossless mode keeps c anyway when c's
// any part overlaps b's any part, since that overlap means the
// transitive composition might not actually imply c; lossy mode drops
// c regardless.
func ReduceArcs(arcs []Arc, lossless bool) []Arc {
	kept := make([]bool, len(arcs))
	for i := range kept {
		kept[i] = true
	}

	for _, a := range arcs {
		if a.From == a.To {
			continue
		}
		for _, b := range arcs {
			if b.From != a.To || a.From == b.To {
				continue
			}
			for ci, c := range arcs {
				if !kept[ci] {
					continue
				}
				if c.From != a.From || c.To != b.To {
					continue
				}
				if !a.ArcType.AtLeastAsStrict(c.ArcType) || !b.ArcType.AtLeastAsStrict(c.ArcType) {
					continue
				}
				if !c.Label.IsDominatedBy(a.Label) || !c.Label.IsDominatedBy(b.Label) {
					continue
				}
				if lossless && anyOverlap(c.Label, b.Label) {
					continue
				}
				kept[ci] = false
			}
		}
	}

	var out []Arc
	for i, a := range arcs {
		if kept[i] {
			out = append(out, a)
		}
	}
	return out
}

func anyOverlap(c, b ArcLabel) bool {
	for _, a := range c.Any {
		if containsAssoc(b.Any, a) {
			return true
		}
	}
	return false
}
