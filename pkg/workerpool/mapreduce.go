package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultParallelism returns the default fan-out width for map-reduce
// stages: the number of logical CPUs reported by gopsutil, falling
// back to runtime.NumCPU() if the probe fails (e.g. inside a
// restricted container).
func DefaultParallelism() int {
	counts, err := cpu.Counts(true)
	if err != nil || counts <= 0 {
		return runtime.NumCPU()
	}
	return counts
}

// MapReduce applies fn to every element of items concurrently (bounded
// by workers, defaulting to DefaultParallelism when <= 0) and folds
// the results with reduce, left to right in item index order — reduce
// itself must be associative and commutative, since
// map-reduce over variants, DFG edges, and candidates all fold sums
// or unions that do not depend on visitation order.
//
// zero is the identity element reduce starts from when items is empty.
func MapReduce[T, R any](items []T, workers int, fn func(T) R, reduce func(R, R) R, zero R) R {
	if len(items) == 0 {
		return zero
	}
	if workers <= 0 {
		workers = DefaultParallelism()
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]R, len(items))
	var wg sync.WaitGroup
	indices := make(chan int, len(items))
	for i := range items {
		indices <- i
	}
	close(indices)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = fn(items[i])
			}
		}()
	}
	wg.Wait()

	acc := zero
	for _, r := range results {
		acc = reduce(acc, r)
	}
	return acc
}

// ForEach runs fn over every element of items concurrently (bounded by
// workers, defaulting to DefaultParallelism), for side-effecting
// per-item work with no result to fold (e.g. metrics emission).
func ForEach[T any](items []T, workers int, fn func(T)) {
	MapReduce(items, workers, func(t T) struct{} {
		fn(t)
		return struct{}{}
	}, func(struct{}, struct{}) struct{} { return struct{}{} }, struct{}{})
}

// RunUntilThreshold fans out fn over items, stopping early once at
// least minSuccesses calls have reported success=true OR once enough
// calls have reported failure that the threshold can no longer be met
// (len(items) - failures < minSuccesses) — the two-atomic-counter
// pattern used by noise-tolerant OC-DECLARE conformance (one arc's
// violation-budget check terminates as soon as the outcome is
// decided, without waiting for every event binding to be evaluated).
//
// fn must be safe to call concurrently and may be skipped for items
// ordered after the decision point; RunUntilThreshold does not
// guarantee every item is visited.
func RunUntilThreshold(items int, workers int, minSuccesses int, fn func(i int) bool) bool {
	if minSuccesses <= 0 {
		return true
	}
	if items == 0 {
		return false
	}
	if workers <= 0 {
		workers = DefaultParallelism()
	}
	if workers > items {
		workers = items
	}

	var successes int64
	var failures int64
	decided := make(chan bool, 1)
	indices := make(chan int, items)
	for i := 0; i < items; i++ {
		indices <- i
	}
	close(indices)

	done := make(chan struct{})
	var once sync.Once
	decide := func(result bool) {
		once.Do(func() {
			decided <- result
			close(done)
		})
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				select {
				case <-done:
					return
				default:
				}
				if fn(i) {
					if int(atomic.AddInt64(&successes, 1)) >= minSuccesses {
						decide(true)
						return
					}
				} else {
					if items-int(atomic.AddInt64(&failures, 1)) < minSuccesses {
						decide(false)
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		once.Do(func() {
			decided <- int(atomic.LoadInt64(&successes)) >= minSuccesses
			close(done)
		})
	}()

	return <-decided
}
