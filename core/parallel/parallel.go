// Package parallel runs indexed work items concurrently with a bound on the
// number in flight.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns limit, or the number of CPU cores when limit is not
// positive, capped at items.
func Workers(items, limit int) int {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	if limit > items {
		limit = items
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// Map calls fn for every index in [0, items) with at most limit calls in
// flight and returns the results in index order.
//
// Every item runs even if an earlier one fails; the returned error is the one
// from the lowest failing index, so the outcome matches a sequential loop
// that stops at the first error.
func Map[T any](ctx context.Context, items, limit int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, items)
	if items == 0 {
		return results, nil
	}
	errs := make([]error, items)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(items, limit))
	for i := 0; i < items; i++ {
		g.Go(func() error {
			v, err := fn(gctx, i)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = v
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Parallelize splits [0, items) into one contiguous range per worker and
// runs fn on each range concurrently.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	numWorkers := Workers(items, 0)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var g errgroup.Group
	for start := 0; start < items; start += chunkSize {
		end := min(start+chunkSize, items)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items is at most threshold, and via Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
