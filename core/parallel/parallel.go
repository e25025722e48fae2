// Package parallel splits index ranges across CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// Chunks divides [0, items) into at most runtime.NumCPU contiguous
// ranges and runs fn on each in its own goroutine. When items does not
// exceed threshold, fn runs once on the whole range in the caller's
// goroutine.
//
// The returned error is the one from the lowest-indexed failing range,
// so the result does not depend on scheduling.
func Chunks(items, threshold int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}
	if items <= threshold {
		return fn(0, items)
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	size := (items + workers - 1) / workers

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * size
		end := min(start+size, items)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			errs[w] = fn(start, end)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
