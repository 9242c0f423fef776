package ocdeclare

import (
	"math"
	"time"

	"ssw-process-mining/pkg/ocel/linked"
	"ssw-process-mining/pkg/workerpool"
)

// candidatePool returns the events a binding could possibly match: the
// objects named by the binding's first filter narrow the search to
// their related events (via the reverse E2O index) rather than
// scanning every event; an empty binding falls back to every event.
func candidatePool(l *linked.LinkedOCEL, binding Binding) []linked.EventIndex {
	if len(binding) == 0 {
		all := make([]linked.EventIndex, l.NumEvents())
		for i := range all {
			all[i] = linked.EventIndex(i)
		}
		return all
	}
	first := binding[0]
	if first.Kind == FilterAll && len(first.Objects) == 0 {
		return nil
	}

	seen := make(map[linked.EventIndex]struct{})
	var out []linked.EventIndex
	add := func(obj linked.ObjectIndex) {
		for _, qe := range l.E2ORev(obj) {
			if _, ok := seen[qe.Event]; !ok {
				seen[qe.Event] = struct{}{}
				out = append(out, qe.Event)
			}
		}
	}
	switch first.Kind {
	case FilterAny:
		for _, o := range first.Objects {
			add(o)
		}
	default: // FilterAll
		add(first.Objects[0])
	}
	return out
}

// matchingEvents filters a candidate pool down to events whose related
// objects satisfy every filter in binding.
func matchingEvents(l *linked.LinkedOCEL, binding Binding, pool []linked.EventIndex) []linked.EventIndex {
	var out []linked.EventIndex
	for _, ev := range pool {
		set := l.E2OSet(ev)
		ok := true
		for _, f := range binding {
			if !f.Check(set) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, ev)
		}
	}
	return out
}

// countForBinding computes the satisfying-target count for one
// binding of one arc at one source event.
func countForBinding(l *linked.LinkedOCEL, arc Arc, srcTime time.Time, binding Binding) int {
	pool := candidatePool(l, binding)

	switch arc.ArcType {
	case DF, DP:
		following := arc.ArcType == DF
		var best linked.EventIndex
		found := false
		var bestTime time.Time
		for _, ev := range matchingEvents(l, binding, pool) {
			t := l.Event(ev).Time
			if following {
				if !t.After(srcTime) {
					continue
				}
				if !found || t.Before(bestTime) {
					best, bestTime, found = ev, t, true
				}
			} else {
				if !t.Before(srcTime) {
					continue
				}
				if !found || t.After(bestTime) {
					best, bestTime, found = ev, t, true
				}
			}
		}
		if found && l.Event(best).EventType == arc.To {
			return 1
		}
		return 0
	default: // AS, EF, EP
		count := 0
		for _, ev := range matchingEvents(l, binding, pool) {
			if l.Event(ev).EventType != arc.To {
				continue
			}
			t := l.Event(ev).Time
			switch arc.ArcType {
			case EF:
				if !t.After(srcTime) {
					continue
				}
			case EP:
				if !t.Before(srcTime) {
					continue
				}
			}
			count++
		}
		return count
	}
}

// satisfiedAtEvent reports whether arc is satisfied (not violated) at
// the source event ev: at least one binding's satisfying count falls
// within arc.Counts. An event with no bindings (e.g. a required Each
// association has no related objects) has every binding vacuously
// fail, so it is treated as violated.
func satisfiedAtEvent(l *linked.LinkedOCEL, arc Arc, ev linked.EventIndex) bool {
	srcTime := l.Event(ev).Time
	for _, binding := range Bindings(l, ev, arc.Label) {
		if arc.Counts.Within(countForBinding(l, arc, srcTime, binding)) {
			return true
		}
	}
	return false
}

// ViolationFraction returns the fraction of arc.From events that
// violate arc, from 0 (every event conforms) to 1 (every event
// violates). Returns 0 when there are no events of arc.From.
func ViolationFraction(l *linked.LinkedOCEL, arc Arc) float64 {
	evs := l.EventsPerType[arc.From]
	if len(evs) == 0 {
		return 0
	}
	violated := workerpool.MapReduce(evs, 0, func(ev linked.EventIndex) int {
		if satisfiedAtEvent(l, arc, ev) {
			return 0
		}
		return 1
	}, func(a, b int) int { return a + b }, 0)
	return float64(violated) / float64(len(evs))
}

// Conformance returns 1 - ViolationFraction(l, arc): 1.0 means every
// source event conforms, 0.0 means every source event violates.
func Conformance(l *linked.LinkedOCEL, arc Arc) float64 {
	return 1.0 - ViolationFraction(l, arc)
}

// WithinThreshold reports whether arc's violation fraction over l is
// at most violationThresh, using the two-target early-termination
// search: s* satisfying events needed, v* violations enough to decide
// failure, whichever threshold is hit first ends the scan.
func WithinThreshold(l *linked.LinkedOCEL, arc Arc, violationThresh float64) bool {
	evs := l.EventsPerType[arc.From]
	n := len(evs)
	if n == 0 {
		return true
	}
	minSuccesses := int(math.Ceil(float64(n) * (1.0 - violationThresh)))
	if minSuccesses <= 0 {
		return true
	}
	return workerpool.RunUntilThreshold(n, 0, minSuccesses, func(i int) bool {
		return satisfiedAtEvent(l, arc, evs[i])
	})
}
