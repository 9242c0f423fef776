package projection

import "github.com/sirupsen/logrus"

// AddStartEnd prepends StartActivity and appends EndActivity to every
// variant in place. If either label is already present in the
// dictionary, that label is reused and is not re-inserted into every
// variant a second time — callers that pass an already-repaired
// projection back through AddStartEnd get a logged warning instead of
// duplicate sentinels.
func (p *Projection) AddStartEnd(logger *logrus.Logger) {
	startAct, addStart := p.ensureActivity(StartActivity, logger)
	endAct, addEnd := p.ensureActivity(EndActivity, logger)

	if !addStart && !addEnd {
		return
	}

	for i := range p.Variants {
		indices := p.Variants[i].Indices
		if addStart {
			indices = append([]int{startAct}, indices...)
		}
		if addEnd {
			indices = append(indices, endAct)
		}
		p.Variants[i].Indices = indices
	}
}

// ensureActivity returns the index of label, registering it if
// absent. The second return value reports whether every variant still
// needs label inserted (false when label was already present).
func (p *Projection) ensureActivity(label string, logger *logrus.Logger) (int, bool) {
	if idx, ok := p.ActToIndex[label]; ok {
		if logger != nil {
			logger.WithField("activity", label).Warn("activity already present in projection; skipping insertion into every variant")
		}
		return idx, false
	}
	idx := len(p.Activities)
	p.Activities = append(p.Activities, label)
	p.ActToIndex[label] = idx
	return idx, true
}
