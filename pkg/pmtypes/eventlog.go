package pmtypes

// EventLogExtension describes an XES extension: a namespace of
// attribute keys sharing a common prefix.
type EventLogExtension struct {
	Name   string
	Prefix string
	URI    string
}

// EventLogClassifier classifies events by a set of attribute keys
// considered for class identity (e.g. the default "Activity
// classifier" uses just concept:name).
type EventLogClassifier struct {
	Name string
	Keys []string
}

// EventLog is an ordered collection of traces plus log-level metadata.
// Global trace/event attribute lists back missing keys on individual
// traces/events (see Attributes.GetByKeyOrGlobal).
type EventLog struct {
	Attributes       Attributes
	Traces           []Trace
	Extensions       []EventLogExtension
	Classifiers      []EventLogClassifier
	GlobalTraceAttrs Attributes
	GlobalEventAttrs Attributes
}

// NewEventLog builds an empty event log.
func NewEventLog() EventLog {
	return EventLog{}
}

// CloneWithoutTraces copies log-level metadata but not the traces.
func (l EventLog) CloneWithoutTraces() EventLog {
	clone := l
	clone.Traces = nil
	return clone
}

// ClassifierByName returns the named classifier, if any.
func (l EventLog) ClassifierByName(name string) (EventLogClassifier, bool) {
	for _, c := range l.Classifiers {
		if c.Name == name {
			return c, true
		}
	}
	return EventLogClassifier{}, false
}

// TraceAttribute looks up a trace attribute, falling back to the log's
// global trace attributes.
func (l EventLog) TraceAttribute(t Trace, key string) (Attribute, bool) {
	return t.Attributes.GetByKeyOrGlobal(key, l.GlobalTraceAttrs)
}

// EventAttribute looks up an event attribute, falling back to the
// log's global event attributes.
func (l EventLog) EventAttribute(e Event, key string) (Attribute, bool) {
	return e.Attributes.GetByKeyOrGlobal(key, l.GlobalEventAttrs)
}
