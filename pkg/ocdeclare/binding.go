package ocdeclare

import "ssw-process-mining/pkg/ocel/linked"

// FilterKind selects how a [SetFilter] checks a target event's related
// objects.
type FilterKind int

const (
	// FilterAny is satisfied if the target is related to at least one
	// of the filter's objects.
	FilterAny FilterKind = iota
	// FilterAll is satisfied only if the target is related to every
	// one of the filter's objects.
	FilterAll
)

// SetFilter checks a target event's related-object set against a
// fixed collection of object indices, per one ArcLabel element.
type SetFilter struct {
	Kind    FilterKind
	Objects []linked.ObjectIndex
}

// Check reports whether the target's related-object set satisfies the
// filter. An empty Any filter is satisfied (no requirement); an empty
// All filter is not satisfied by any target.
func (f SetFilter) Check(targetObjects map[linked.ObjectIndex]struct{}) bool {
	if len(f.Objects) == 0 {
		return f.Kind == FilterAny
	}
	switch f.Kind {
	case FilterAny:
		for _, o := range f.Objects {
			if _, ok := targetObjects[o]; ok {
				return true
			}
		}
		return false
	default: // FilterAll
		for _, o := range f.Objects {
			if _, ok := targetObjects[o]; !ok {
				return false
			}
		}
		return true
	}
}

// Binding is one concrete object selection satisfying an ArcLabel:
// one SetFilter per label element, all of which must hold against the
// candidate target event.
type Binding []SetFilter

// relatedObjects resolves an ObjectTypeAssociation against a source
// event, returning the objects it selects.
func relatedObjects(l *linked.LinkedOCEL, ev linked.EventIndex, a ObjectTypeAssociation) []linked.ObjectIndex {
	var direct []linked.ObjectIndex
	for _, qo := range l.E2O(ev) {
		if l.Object(qo.Object).ObjectType == a.Type {
			direct = append(direct, qo.Object)
		}
	}
	if a.Kind == AssocSimple {
		return direct
	}

	seen := make(map[linked.ObjectIndex]struct{})
	var hops []linked.ObjectIndex
	for _, o1 := range direct {
		related := l.O2O(o1)
		if a.Reversed {
			related = l.O2ORev(o1)
		}
		for _, qo := range related {
			if l.Object(qo.Object).ObjectType != a.TargetType {
				continue
			}
			if _, ok := seen[qo.Object]; ok {
				continue
			}
			seen[qo.Object] = struct{}{}
			hops = append(hops, qo.Object)
		}
	}
	return hops
}

// Bindings enumerates every binding of label against the source event
// ev. Each association in label.Each contributes one factor to a
// cartesian product (one binding per combination of picked objects);
// Any and All associations become filters applied identically across
// every binding. An Each association with no related objects makes
// the whole product empty for that combination, so bindings is empty
// when a required each-association is absent from the source event.
func Bindings(l *linked.LinkedOCEL, ev linked.EventIndex, label ArcLabel) []Binding {
	anyAllFilters := make([]SetFilter, 0, len(label.Any)+len(label.All))
	for _, a := range label.Any {
		anyAllFilters = append(anyAllFilters, SetFilter{Kind: FilterAny, Objects: relatedObjects(l, ev, a)})
	}
	for _, a := range label.All {
		anyAllFilters = append(anyAllFilters, SetFilter{Kind: FilterAll, Objects: relatedObjects(l, ev, a)})
	}

	if len(label.Each) == 0 {
		return []Binding{append([]SetFilter{}, anyAllFilters...)}
	}

	eachOptions := make([][]linked.ObjectIndex, len(label.Each))
	for i, a := range label.Each {
		opts := relatedObjects(l, ev, a)
		if len(opts) == 0 {
			return nil
		}
		eachOptions[i] = opts
	}

	var bindings []Binding
	var build func(i int, picked []linked.ObjectIndex)
	build = func(i int, picked []linked.ObjectIndex) {
		if i == len(eachOptions) {
			b := append([]SetFilter{}, anyAllFilters...)
			for _, p := range picked {
				b = append(b, SetFilter{Kind: FilterAll, Objects: []linked.ObjectIndex{p}})
			}
			bindings = append(bindings, b)
			return
		}
		for _, o := range eachOptions[i] {
			build(i+1, append(picked, o))
		}
	}
	build(0, nil)
	return bindings
}
