// Package parallel provides helpers for splitting row-oriented work across
// CPU cores. Kernel matrix assembly in SciGP is embarrassingly parallel over
// rows, so the helpers here deal in contiguous [start, end) row ranges.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items into contiguous ranges, one per worker, and runs
// fn(start, end) on each range concurrently. It blocks until all ranges are
// done. The number of workers is capped at runtime.NumCPU().
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}

	// Ceiling division so the last range picks up the remainder.
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items does not exceed threshold, and falls back to Parallelize otherwise.
// Small kernel matrices are cheaper to fill on one goroutine.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
