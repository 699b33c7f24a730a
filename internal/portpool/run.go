package portpool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Work runs one file against a leased port and returns its result. Work
// must not return an error that should abort other files: a session-level
// fault aborts only the current file, so any failure Work encounters
// belongs inside T, not in a returned error.
type Work[T any] func(ctx context.Context, path string, lease Lease) T

// RunFiles drives files through work with concurrency bounded by pool's
// size, and returns one T per file in the same order files were given —
// regardless of which goroutine finishes first.
func RunFiles[T any](ctx context.Context, pool *Pool, files []string, work Work[T]) []T {
	return RunFilesOrdered(ctx, pool, files, work, nil)
}

// RunFilesOrdered is RunFiles plus a streaming callback: onResult fires
// once per file, in original input order, as soon as that file's result
// (and every file before it) is ready — even though files may finish
// out of order. Pass a nil onResult to skip streaming and just collect
// results, which is what RunFiles does.
func RunFilesOrdered[T any](ctx context.Context, pool *Pool, files []string, work Work[T], onResult func(T)) []T {
	results := make([]T, len(files))
	collector := NewOrderedCollector(func(v T) {
		if onResult != nil {
			onResult(v)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			lease, err := pool.Acquire(gctx)
			if err != nil {
				// Pool acquisition only fails if the run's context was
				// cancelled; there is no per-file report to populate, so
				// leave results[i] at its zero value.
				return nil
			}
			defer lease.Release()
			v := work(gctx, path, lease)
			results[i] = v
			collector.Submit(i, v)
			return nil
		})
	}
	_ = g.Wait() // work() never returns a non-nil error; see Work's contract

	return results
}

// OrderedCollector accumulates results out of order (as concurrent file
// executors finish) and flushes them to sink strictly in original input
// order: index 3's report is only handed to sink once indices 0-2 have
// already been flushed. This is what lets the CLI start printing file
// reports before the whole run completes while still producing
// deterministic, reproducible output order.
type OrderedCollector[T any] struct {
	mu      sync.Mutex
	pending map[int]T
	next    int
	sink    func(T)
}

// NewOrderedCollector builds a collector that flushes to sink in index
// order starting at 0.
func NewOrderedCollector[T any](sink func(T)) *OrderedCollector[T] {
	return &OrderedCollector[T]{pending: make(map[int]T), sink: sink}
}

// Submit records index's result and flushes as much of the pending
// contiguous prefix as is now ready.
func (c *OrderedCollector[T]) Submit(index int, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[index] = value
	for {
		v, ok := c.pending[c.next]
		if !ok {
			return
		}
		delete(c.pending, c.next)
		c.next++
		c.sink(v)
	}
}
