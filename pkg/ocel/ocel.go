// Package ocel defines the object-centric event log data model: event
// and object types with typed attribute schemas, events carrying
// qualified relationships to objects, and objects carrying a
// time-indexed attribute history and qualified relationships to other
// objects.
package ocel

import "time"

// EpochZero is the distinguished timestamp that marks an object
// attribute value as "initial" rather than a later change, per the
// object attribute history invariant.
var EpochZero = time.Unix(0, 0).UTC()

// TypeAttribute declares one attribute in an event or object type's
// schema.
type TypeAttribute struct {
	Name string
	Type AttributeType
}

// Type is a named vocabulary entry — an event type or object type —
// together with its attribute schema.
type Type struct {
	Name       string
	Attributes []TypeAttribute
}

// Relationship is a qualified edge from an event to an object (E2O) or
// from an object to another object (O2O).
type Relationship struct {
	ObjectID  string
	Qualifier string
}

// EventAttribute is one named, typed value carried by an event.
type EventAttribute struct {
	Name  string
	Value AttributeValue
}

// Event is one occurrence: an id, a type, a timestamp, a flat set of
// attribute values, and the objects it relates to.
type Event struct {
	ID            string
	EventType     string
	Time          time.Time
	Attributes    []EventAttribute
	Relationships []Relationship
}

// ObjectAttribute is one entry in an object's attribute history: the
// value of Name at Time. An entry at EpochZero is the object's initial
// value for that attribute; any other Time is a later change.
type ObjectAttribute struct {
	Name  string
	Value AttributeValue
	Time  time.Time
}

// Object is a persistent entity: an id, a type, a time-indexed history
// of attribute values, and the other objects it relates to.
type Object struct {
	ID            string
	ObjectType    string
	Attributes    []ObjectAttribute
	Relationships []Relationship
}

// AttributeAt returns the value of the named attribute as of t: the
// latest history entry with Time <= t, or false if the attribute has
// no entry at or before t.
func (o Object) AttributeAt(name string, t time.Time) (AttributeValue, bool) {
	found := false
	var best ObjectAttribute
	for _, a := range o.Attributes {
		if a.Name != name || a.Time.After(t) {
			continue
		}
		if !found || a.Time.After(best.Time) {
			best, found = a, true
		}
	}
	return best.Value, found
}

// InitialAttribute returns the named attribute's value at EpochZero,
// the "initial" value per the object attribute history invariant.
func (o Object) InitialAttribute(name string) (AttributeValue, bool) {
	for _, a := range o.Attributes {
		if a.Name == name && a.Time.Equal(EpochZero) {
			return a.Value, true
		}
	}
	return AttributeValue{}, false
}

// OCEL is an object-centric event log: two parallel vocabularies
// (event types, object types) and the events and objects instantiating
// them.
type OCEL struct {
	EventTypes  []Type
	ObjectTypes []Type
	Events      []Event
	Objects     []Object
}

// New returns an empty OCEL.
func New() OCEL {
	return OCEL{}
}

// ObjectByID returns the object with the given id, if present. Lookup
// is linear; callers needing repeated or neighborhood queries should
// build a [linked OCEL](../ocel/linked) instead.
func (o OCEL) ObjectByID(id string) (Object, bool) {
	for _, obj := range o.Objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return Object{}, false
}

// EventByID returns the event with the given id, if present.
func (o OCEL) EventByID(id string) (Event, bool) {
	for _, ev := range o.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}
