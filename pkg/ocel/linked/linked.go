// Package linked builds an index form of an [ocel.OCEL]: a value-owning
// store plus derived forward/reverse relationship indices and per-type
// partitions, materialized once at construction for expected-constant-
// time local-neighborhood queries during discovery and conformance
// checking.
package linked

import (
	"sort"

	"github.com/sirupsen/logrus"

	"ssw-process-mining/pkg/ocel"
)

// EventIndex points at an event within the context of one LinkedOCEL.
type EventIndex int

// ObjectIndex points at an object within the context of one LinkedOCEL.
type ObjectIndex int

// QualifiedEvent pairs a relationship qualifier with the event index it
// points to.
type QualifiedEvent struct {
	Qualifier string
	Event     EventIndex
}

// QualifiedObject pairs a relationship qualifier with the object index
// it points to.
type QualifiedObject struct {
	Qualifier string
	Object    ObjectIndex
}

// LinkedOCEL is an OCEL linked through event and object indices. It
// owns the underlying OCEL so that every index it exposes always
// points at a valid event or object.
//
// It is built once from a complete OCEL and is read-only while
// discovery or conformance checking runs; mutate the underlying OCEL
// through IntoInner and rebuild instead of mutating a LinkedOCEL in
// place, unless the caller can uphold the cross-index invariant
// itself.
type LinkedOCEL struct {
	ocel ocel.OCEL

	eventIDToIndex  map[string]EventIndex
	objectIDToIndex map[string]ObjectIndex

	// EventsPerType lists, in index order, every event of a given type.
	EventsPerType map[string][]EventIndex
	// ObjectsPerType lists, in index order, every object of a given type.
	ObjectsPerType map[string][]ObjectIndex

	// E2ORevByType narrows the reverse E2O index by event type: for an
	// object and an event type, the set of event indices of that type
	// related to the object.
	E2ORevByType map[string]map[ObjectIndex]map[EventIndex]struct{}

	e2oRel    [][]QualifiedObject
	e2oSet    []map[ObjectIndex]struct{}
	o2oRel    [][]QualifiedObject
	e2oRelRev [][]QualifiedEvent
	o2oRelRev [][]QualifiedObject
}

// FromOCEL builds a LinkedOCEL from o, taking ownership of it. Events
// are sorted by non-decreasing timestamp (stable) so that index order
// is temporal order, per the ordering guarantee that event order
// within the linked form is globally by timestamp with ties broken by
// original position. Relationships referencing an unknown object id
// are dropped with a logged warning rather than aborting construction;
// logger may be nil to suppress the warning.
func FromOCEL(o ocel.OCEL, logger *logrus.Logger) *LinkedOCEL {
	sort.SliceStable(o.Events, func(i, j int) bool { return o.Events[i].Time.Before(o.Events[j].Time) })

	l := &LinkedOCEL{
		ocel:            o,
		eventIDToIndex:  make(map[string]EventIndex, len(o.Events)),
		objectIDToIndex: make(map[string]ObjectIndex, len(o.Objects)),
		EventsPerType:   make(map[string][]EventIndex),
		ObjectsPerType:  make(map[string][]ObjectIndex),
		E2ORevByType:    make(map[string]map[ObjectIndex]map[EventIndex]struct{}),
		e2oRel:          make([][]QualifiedObject, len(o.Events)),
		e2oSet:          make([]map[ObjectIndex]struct{}, len(o.Events)),
		o2oRel:          make([][]QualifiedObject, len(o.Objects)),
		e2oRelRev:       make([][]QualifiedEvent, len(o.Objects)),
		o2oRelRev:       make([][]QualifiedObject, len(o.Objects)),
	}

	for i, obj := range o.Objects {
		l.objectIDToIndex[obj.ID] = ObjectIndex(i)
	}
	for i, ev := range o.Events {
		l.eventIDToIndex[ev.ID] = EventIndex(i)
	}
	for _, et := range o.EventTypes {
		l.E2ORevByType[et.Name] = make(map[ObjectIndex]map[EventIndex]struct{})
	}

	for i, ev := range o.Events {
		evIdx := EventIndex(i)
		l.EventsPerType[ev.EventType] = append(l.EventsPerType[ev.EventType], evIdx)
		l.e2oSet[i] = make(map[ObjectIndex]struct{})
		for _, rel := range ev.Relationships {
			objIdx, ok := l.objectIDToIndex[rel.ObjectID]
			if !ok {
				if logger != nil {
					logger.WithFields(logrus.Fields{"event": ev.ID, "object": rel.ObjectID}).
						Warn("e2o relationship references unknown object id; dropping")
				}
				continue
			}
			l.e2oRel[i] = append(l.e2oRel[i], QualifiedObject{Qualifier: rel.Qualifier, Object: objIdx})
			l.e2oSet[i][objIdx] = struct{}{}
			l.e2oRelRev[objIdx] = append(l.e2oRelRev[objIdx], QualifiedEvent{Qualifier: rel.Qualifier, Event: evIdx})

			byObj := l.E2ORevByType[ev.EventType]
			if byObj == nil {
				byObj = make(map[ObjectIndex]map[EventIndex]struct{})
				l.E2ORevByType[ev.EventType] = byObj
			}
			if byObj[objIdx] == nil {
				byObj[objIdx] = make(map[EventIndex]struct{})
			}
			byObj[objIdx][evIdx] = struct{}{}
		}
	}

	for i, obj := range o.Objects {
		objIdx := ObjectIndex(i)
		l.ObjectsPerType[obj.ObjectType] = append(l.ObjectsPerType[obj.ObjectType], objIdx)
		for _, rel := range obj.Relationships {
			toIdx, ok := l.objectIDToIndex[rel.ObjectID]
			if !ok {
				if logger != nil {
					logger.WithFields(logrus.Fields{"object": obj.ID, "related_object": rel.ObjectID}).
						Warn("o2o relationship references unknown object id; dropping")
				}
				continue
			}
			l.o2oRel[i] = append(l.o2oRel[i], QualifiedObject{Qualifier: rel.Qualifier, Object: toIdx})
			l.o2oRelRev[toIdx] = append(l.o2oRelRev[toIdx], QualifiedObject{Qualifier: rel.Qualifier, Object: objIdx})
		}
	}

	return l
}

// IntoInner returns the underlying OCEL, consuming the LinkedOCEL's
// ownership of it. Callers that need to mutate the OCEL and keep
// querying through indices should call IntoInner, mutate, and rebuild
// with FromOCEL rather than mutate a live LinkedOCEL's indices by hand.
func (l *LinkedOCEL) IntoInner() ocel.OCEL {
	return l.ocel
}

// Inner returns a read-only reference to the underlying OCEL.
func (l *LinkedOCEL) Inner() *ocel.OCEL {
	return &l.ocel
}

// Event returns the event at idx.
func (l *LinkedOCEL) Event(idx EventIndex) ocel.Event { return l.ocel.Events[idx] }

// Object returns the object at idx.
func (l *LinkedOCEL) Object(idx ObjectIndex) ocel.Object { return l.ocel.Objects[idx] }

// EventIndexOf returns the index of the event with the given id.
func (l *LinkedOCEL) EventIndexOf(id string) (EventIndex, bool) {
	idx, ok := l.eventIDToIndex[id]
	return idx, ok
}

// ObjectIndexOf returns the index of the object with the given id.
func (l *LinkedOCEL) ObjectIndexOf(id string) (ObjectIndex, bool) {
	idx, ok := l.objectIDToIndex[id]
	return idx, ok
}

// E2O returns the qualified objects related to the event at idx.
func (l *LinkedOCEL) E2O(idx EventIndex) []QualifiedObject { return l.e2oRel[idx] }

// E2OSet returns the set of objects related to the event at idx, for
// expected O(1) membership tests.
func (l *LinkedOCEL) E2OSet(idx EventIndex) map[ObjectIndex]struct{} { return l.e2oSet[idx] }

// E2ORev returns the qualified events related to the object at idx.
func (l *LinkedOCEL) E2ORev(idx ObjectIndex) []QualifiedEvent { return l.e2oRelRev[idx] }

// O2O returns the qualified objects related to the object at idx.
func (l *LinkedOCEL) O2O(idx ObjectIndex) []QualifiedObject { return l.o2oRel[idx] }

// O2ORev returns the qualified objects that relate to the object at
// idx via an O2O relationship.
func (l *LinkedOCEL) O2ORev(idx ObjectIndex) []QualifiedObject { return l.o2oRelRev[idx] }

// EventTypes returns the event type vocabulary.
func (l *LinkedOCEL) EventTypes() []ocel.Type { return l.ocel.EventTypes }

// ObjectTypes returns the object type vocabulary.
func (l *LinkedOCEL) ObjectTypes() []ocel.Type { return l.ocel.ObjectTypes }

// AllEvents returns every event, in index (temporal) order.
func (l *LinkedOCEL) AllEvents() []ocel.Event { return l.ocel.Events }

// AllObjects returns every object.
func (l *LinkedOCEL) AllObjects() []ocel.Object { return l.ocel.Objects }

// NumEvents returns the number of events.
func (l *LinkedOCEL) NumEvents() int { return len(l.ocel.Events) }

// NumObjects returns the number of objects.
func (l *LinkedOCEL) NumObjects() int { return len(l.ocel.Objects) }
