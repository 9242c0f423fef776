package pmtypes

import "time"

// Well-known attribute keys, following the XES concept/time extensions.
const (
	ActivityKey  = "concept:name"
	TimestampKey = "time:timestamp"

	// FallbackActivity is used when an event carries no (or a
	// non-string) activity attribute.
	FallbackActivity = "No Activity"
)

// Event is a case-centric event: an attribute list, with no structure
// of its own. The activity label lives at ActivityKey, the timestamp
// at TimestampKey.
type Event struct {
	Attributes Attributes
}

// NewEvent builds an event carrying only the given activity label.
func NewEvent(activity string) Event {
	return Event{Attributes: Attributes{{Key: ActivityKey, Value: String(activity)}}}
}

// Activity returns the event's activity label, or FallbackActivity if
// missing or not a string.
func (e Event) Activity() string {
	attr, ok := e.Attributes.GetByKey(ActivityKey)
	if !ok {
		return FallbackActivity
	}
	s, ok := attr.Value.AsString()
	if !ok {
		return FallbackActivity
	}
	return s
}

// Timestamp returns the event's timestamp and true if present and of
// kind date.
func (e Event) Timestamp() (time.Time, bool) {
	attr, ok := e.Attributes.GetByKey(TimestampKey)
	if !ok {
		return time.Time{}, false
	}
	return attr.Value.AsDate()
}
