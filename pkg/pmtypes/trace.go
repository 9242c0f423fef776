package pmtypes

// Trace is an ordered sequence of events plus its own attribute list.
// Event order is significant and is never implicitly reordered; a
// caller that wants chronological order must request a stable sort by
// a specific timestamp key.
type Trace struct {
	Attributes Attributes
	Events     []Event
}

// NewTrace builds an empty trace.
func NewTrace() Trace {
	return Trace{}
}

// CloneWithoutEvents copies the trace's attributes but not its events.
func (t Trace) CloneWithoutEvents() Trace {
	attrs := make(Attributes, len(t.Attributes))
	copy(attrs, t.Attributes)
	return Trace{Attributes: attrs}
}
