package pmtypes

// Attribute is a named, typed value with an optional nested attribute
// list (used by KindList/KindContainer values' own scoping, and for
// entities — events, traces, objects — that attach attributes beyond
// the single value they carry).
type Attribute struct {
	Key   string
	Value Value
}

// NewAttribute builds an Attribute.
func NewAttribute(key string, value Value) Attribute {
	return Attribute{Key: key, Value: value}
}

// Attributes is an ordered, duplicate-tolerant list of attributes.
// Lookup is linear by design — lists are short in practice.
type Attributes []Attribute

// Add appends a new attribute. Does not check for an existing key.
func (a *Attributes) Add(key string, value Value) {
	*a = append(*a, Attribute{Key: key, Value: value})
}

// GetByKey returns the first attribute with the given key.
func (a Attributes) GetByKey(key string) (Attribute, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr, true
		}
	}
	return Attribute{}, false
}

// GetByKeyOrGlobal returns the first attribute with the given key,
// falling back to global when the key is absent locally.
func (a Attributes) GetByKeyOrGlobal(key string, global Attributes) (Attribute, bool) {
	if attr, ok := a.GetByKey(key); ok {
		return attr, true
	}
	return global.GetByKey(key)
}

// RemoveWithKey removes the first attribute with the given key.
// Reports whether an attribute was removed.
func (a *Attributes) RemoveWithKey(key string) bool {
	for i, attr := range *a {
		if attr.Key == key {
			*a = append((*a)[:i], (*a)[i+1:]...)
			return true
		}
	}
	return false
}

// AsMap collapses the list into a key→value map, discarding duplicate
// keys in favor of the last occurrence and dropping nested own
// attributes. Intended for convenience lookups, not round-tripping.
func (a Attributes) AsMap() map[string]Value {
	m := make(map[string]Value, len(a))
	for _, attr := range a {
		m[attr.Key] = attr.Value
	}
	return m
}
