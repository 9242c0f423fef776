package ocel

// NormalizeInitialAttributes rewrites, per object, the earliest history
// entry for each attribute name to EpochZero when the source format
// had no explicit initial-value marker (i.e. no entry already sits at
// EpochZero for that name). Later entries for the same name are left
// untouched. This is a no-op for inputs that already mark their
// initial values at EpochZero.
func NormalizeInitialAttributes(o *OCEL) {
	for oi := range o.Objects {
		obj := &o.Objects[oi]
		earliest := map[string]int{}
		hasEpochZero := map[string]bool{}
		for i, a := range obj.Attributes {
			if a.Time.Equal(EpochZero) {
				hasEpochZero[a.Name] = true
				continue
			}
			if cur, ok := earliest[a.Name]; !ok || a.Time.Before(obj.Attributes[cur].Time) {
				earliest[a.Name] = i
			}
		}
		for name, idx := range earliest {
			if !hasEpochZero[name] {
				obj.Attributes[idx].Time = EpochZero
			}
		}
	}
}
