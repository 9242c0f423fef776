// Package projection builds a compact, integer-encoded activity
// projection from a case-centric event log: an activity dictionary
// plus a list of (variant, multiplicity) pairs, collapsing identical
// traces.
package projection

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"

	"ssw-process-mining/pkg/pmtypes"
	"ssw-process-mining/pkg/workerpool"
)

const (
	// StartActivity marks the start of a trace once repair/projection
	// prepends it.
	StartActivity = "__START"
	// EndActivity marks the end of a trace once repair/projection
	// appends it.
	EndActivity = "__END"
	// SilentPrefix marks synthetic activities injected by log repair;
	// they never occur in the source log.
	SilentPrefix = "__SILENT__"
)

// Variant is one distinct index sequence and the number of traces that
// collapsed into it.
type Variant struct {
	Indices []int
	Count   uint64
}

// Projection is an event log projected onto activity labels: a dense
// activity dictionary plus the deduplicated variant list.
type Projection struct {
	Activities []string
	ActToIndex map[string]int
	Variants   []Variant
}

// Build projects an event log: per trace, reads the activity attribute
// (falling back to pmtypes.FallbackActivity), assigns dense indices by
// first-seen order, and collapses identical index sequences into
// (variant, count) pairs.
func Build(log pmtypes.EventLog) Projection {
	names := make([][]string, len(log.Traces))
	workerpool.ForEach(indices(len(log.Traces)), 0, func(i int) {
		names[i] = traceActivityNames(log.Traces[i])
	})

	activities := make([]string, 0)
	actToIndex := make(map[string]int)
	for _, traceNames := range names {
		for _, n := range traceNames {
			if _, ok := actToIndex[n]; !ok {
				actToIndex[n] = len(activities)
				activities = append(activities, n)
			}
		}
	}

	indexSeqs := make([][]int, len(names))
	workerpool.ForEach(indices(len(names)), 0, func(i int) {
		seq := make([]int, len(names[i]))
		for j, n := range names[i] {
			seq[j] = actToIndex[n]
		}
		indexSeqs[i] = seq
	})

	variants := collapseVariants(indexSeqs)

	return Projection{
		Activities: activities,
		ActToIndex: actToIndex,
		Variants:   variants,
	}
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func traceActivityNames(t pmtypes.Trace) []string {
	names := make([]string, len(t.Events))
	for i, e := range t.Events {
		names[i] = e.Activity()
	}
	return names
}

// variantBucket holds index sequences that share an xxhash digest,
// since distinct sequences can collide.
type variantBucket struct {
	indices []int
	count   uint64
}

func collapseVariants(indexSeqs [][]int) []Variant {
	buckets := make(map[uint64][]variantBucket)
	for _, seq := range indexSeqs {
		h := hashIndices(seq)
		bucket := buckets[h]
		found := false
		for i := range bucket {
			if equalInts(bucket[i].indices, seq) {
				bucket[i].count++
				found = true
				break
			}
		}
		if !found {
			bucket = append(bucket, variantBucket{indices: seq, count: 1})
		}
		buckets[h] = bucket
	}

	variants := make([]Variant, 0, len(buckets))
	for _, bucket := range buckets {
		for _, b := range bucket {
			variants = append(variants, Variant{Indices: b.indices, Count: b.count})
		}
	}
	return variants
}

func hashIndices(seq []int) uint64 {
	buf := make([]byte, 8*len(seq))
	for i, v := range seq {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	return xxhash.Sum64(buf)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ActsToNames converts a slice of activity indices to their labels,
// sorted alphabetically — a convenience for logging and metrics
// labels.
func (p Projection) ActsToNames(acts []int) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = p.Activities[a]
	}
	sort.Strings(out)
	return out
}
