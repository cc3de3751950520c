// Package parallel splits index ranges across goroutines for column-wise
// statistics. Every call blocks until all chunks are done.
package parallel

import (
	"runtime"
	"sync"
)

// Workers returns the number of goroutines used for n items.
func Workers(n int) int {
	w := runtime.GOMAXPROCS(0)
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Parallelize divides [0, items) into contiguous ranges, one per worker,
// and runs fn on each range concurrently. fn must only touch state owned
// by its range.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := Workers(items)
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

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// work (a caller-defined cost, e.g. rows*cols) is at or below threshold.
func ParallelizeWithThreshold(items, work, threshold int, fn func(start, end int)) {
	if work <= threshold || items <= 1 {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
