package pipeline

import (
	"context"
	"runtime"
	"sync"
)

// Job is one unit of work: the item's position in the input and the item.
type Job[T any] struct {
	Index int
	Item  T
}

type Analyzer[T any] func(ctx context.Context, job Job[T]) error

// Run feeds items to a fixed pool of workers and collects the errors
// they return. Workers default to the number of CPUs. Once ctx is done
// no further items are dispatched and ctx.Err() is reported once.
func Run[T any](ctx context.Context, items []T, workers int, fn Analyzer[T]) []error {
	if len(items) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, len(items))

	jobs := make(chan Job[T])
	errs := make(chan error, len(items)+1)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := fn(ctx, job); err != nil {
					errs <- err
				}
			}
		}()
	}

feed:
	for i, item := range items {
		select {
		case <-ctx.Done():
			errs <- ctx.Err()
			break feed
		case jobs <- Job[T]{Index: i, Item: item}:
		}
	}
	close(jobs)
	wg.Wait()
	close(errs)

	out := make([]error, 0, len(errs))
	for err := range errs {
		out = append(out, err)
	}
	return out
}
