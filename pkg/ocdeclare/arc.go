// Package ocdeclare implements OC-DECLARE: discovery and conformance
// checking of object-centric temporal constraints between event
// types, expressed over a [linked.LinkedOCEL].
package ocdeclare

import "fmt"

// ArcType is one of the five OC-DECLARE temporal relations between a
// source and a target event type.
type ArcType int

const (
	// AS (Association) holds regardless of the relative order of the
	// source and target events in time.
	AS ArcType = iota
	// EF (Eventually-Follows) requires a target strictly later than
	// the source.
	EF
	// EP (Eventually-Precedes) requires a target strictly earlier
	// than the source.
	EP
	// DF (Directly-Follows) requires the nearest later event overall
	// (through the binding) to be of the target type.
	DF
	// DP (Directly-Precedes) requires the nearest earlier event
	// overall (through the binding) to be of the target type.
	DP
)

func (t ArcType) String() string {
	switch t {
	case EF:
		return "EF"
	case EP:
		return "EP"
	case DF:
		return "DF"
	case DP:
		return "DP"
	default:
		return "AS"
	}
}

// ParseArcType parses the short names ArcType.String produces.
// Reports false for anything else, so callers can reject unknown
// configured arc types instead of silently treating them as AS.
func ParseArcType(s string) (ArcType, bool) {
	switch s {
	case "AS":
		return AS, true
	case "EF":
		return EF, true
	case "EP":
		return EP, true
	case "DF":
		return DF, true
	case "DP":
		return DP, true
	default:
		return AS, false
	}
}

// ParseO2OMode parses the configuration names for O2OMode.
func ParseO2OMode(s string) (O2OMode, bool) {
	switch s {
	case "none":
		return O2ONone, true
	case "direct":
		return O2ODirect, true
	case "reversed":
		return O2OReversed, true
	case "bidirectional":
		return O2OBidirectional, true
	default:
		return O2ONone, false
	}
}

// ParseReductionMode parses the configuration names for ReductionMode.
func ParseReductionMode(s string) (ReductionMode, bool) {
	switch s {
	case "none":
		return ReductionNone, true
	case "lossless":
		return ReductionLossless, true
	case "lossy":
		return ReductionLossy, true
	default:
		return ReductionNone, false
	}
}

// chain groups DF/EF together and DP/EP together; AS belongs to
// neither chain and is comparable to both.
func (t ArcType) chain() int {
	switch t {
	case DF, EF:
		return 0
	case DP, EP:
		return 1
	default:
		return -1
	}
}

// rank is the within-chain strictness: higher is stricter.
func (t ArcType) rank() int {
	switch t {
	case DF, DP:
		return 2
	case EF, EP:
		return 1
	default:
		return 0
	}
}

// AtLeastAsStrict reports whether t is at least as strict as other,
// per the strictness order DF ≺ EF ≺ AS and DP ≺ EP ≺ AS (AS is the
// weakest arc type in both chains, DF/DP the strictest).
func (t ArcType) AtLeastAsStrict(other ArcType) bool {
	if other == AS {
		return true
	}
	if t == AS {
		return false
	}
	if t.chain() != other.chain() {
		return false
	}
	return t.rank() >= other.rank()
}

// AssociationKind distinguishes a direct object-type association from
// one reached through an object-to-object hop.
type AssociationKind int

const (
	// AssocSimple relates the source event directly to objects of Type.
	AssocSimple AssociationKind = iota
	// AssocO2O relates the source event to objects of Type, then hops
	// via an O2O relationship to objects of TargetType (reversed, if
	// Reversed, meaning the hop is followed against the stored O2O
	// direction).
	AssocO2O
)

// ObjectTypeAssociation names the object types an OC-DECLARE label
// element selects relative to a source event.
type ObjectTypeAssociation struct {
	Kind       AssociationKind
	Type       string
	TargetType string
	Reversed   bool
}

// SimpleAssociation selects objects of the given type directly related
// to the source event.
func SimpleAssociation(objType string) ObjectTypeAssociation {
	return ObjectTypeAssociation{Kind: AssocSimple, Type: objType}
}

// O2OAssociation selects objects of targetType reached from objects of
// objType via an O2O hop (reversed selects the reverse O2O direction).
func O2OAssociation(objType, targetType string, reversed bool) ObjectTypeAssociation {
	return ObjectTypeAssociation{Kind: AssocO2O, Type: objType, TargetType: targetType, Reversed: reversed}
}

// Key returns a canonical string uniquely identifying the association,
// for deduplication and set membership.
func (a ObjectTypeAssociation) Key() string {
	if a.Kind == AssocSimple {
		return "S:" + a.Type
	}
	return fmt.Sprintf("O:%s>%s:%t", a.Type, a.TargetType, a.Reversed)
}

// ArcLabel is the object-type selection attached to an arc: three
// disjoint parts controlling how many related objects must witness the
// target event (each individually, any one of them, or all of them at
// once).
type ArcLabel struct {
	Each []ObjectTypeAssociation
	Any  []ObjectTypeAssociation
	All  []ObjectTypeAssociation
}

func containsAssoc(set []ObjectTypeAssociation, a ObjectTypeAssociation) bool {
	for _, s := range set {
		if s.Key() == a.Key() {
			return true
		}
	}
	return false
}

// Size is the total number of association elements across all three
// parts.
func (l ArcLabel) Size() int { return len(l.Each) + len(l.Any) + len(l.All) }

// Combine returns the union of l and other's each/any/all parts,
// deduplicated within each part.
func (l ArcLabel) Combine(other ArcLabel) ArcLabel {
	combined := ArcLabel{
		Each: append([]ObjectTypeAssociation{}, l.Each...),
		Any:  append([]ObjectTypeAssociation{}, l.Any...),
		All:  append([]ObjectTypeAssociation{}, l.All...),
	}
	for _, a := range other.Each {
		if !containsAssoc(combined.Each, a) {
			combined.Each = append(combined.Each, a)
		}
	}
	for _, a := range other.Any {
		if !containsAssoc(combined.Any, a) {
			combined.Any = append(combined.Any, a)
		}
	}
	for _, a := range other.All {
		if !containsAssoc(combined.All, a) {
			combined.All = append(combined.All, a)
		}
	}
	return combined
}

// IsDominatedBy reports whether l ≼ other: every element of l's each
// is in other's each or all, every element of l's any is in other's
// any, each, or all, and every element of l's all is in other's all or
// each — intuitively, other is at least as informative as l, so
// whatever other implies about conformance, l implies too.
func (l ArcLabel) IsDominatedBy(other ArcLabel) bool {
	for _, a := range l.Each {
		if !containsAssoc(other.Each, a) && !containsAssoc(other.All, a) {
			return false
		}
	}
	for _, a := range l.Any {
		if !containsAssoc(other.Any, a) && !containsAssoc(other.Each, a) && !containsAssoc(other.All, a) {
			return false
		}
	}
	for _, a := range l.All {
		if !containsAssoc(other.All, a) && !containsAssoc(other.Each, a) {
			return false
		}
	}
	return true
}

// Equal reports whether l and other contain the same associations in
// each corresponding part, order-independent.
func (l ArcLabel) Equal(other ArcLabel) bool {
	return l.IsDominatedBy(other) && other.IsDominatedBy(l) &&
		len(l.Each) == len(other.Each) && len(l.Any) == len(other.Any) && len(l.All) == len(other.All)
}

// Counts bounds how many target events a binding's satisfying count
// must fall between; a nil bound is unbounded on that side.
type Counts struct {
	Min *int
	Max *int
}

// Within reports whether n satisfies the bound.
func (c Counts) Within(n int) bool {
	if c.Min != nil && n < *c.Min {
		return false
	}
	if c.Max != nil && n > *c.Max {
		return false
	}
	return true
}

// Arc is one OC-DECLARE constraint: from_type and to_type are event
// types, ArcType is the temporal relation, Label selects which
// objects bind source to target, and Counts bounds the satisfying
// target count per binding.
type Arc struct {
	From    string
	To      string
	ArcType ArcType
	Label   ArcLabel
	Counts  Counts
}
