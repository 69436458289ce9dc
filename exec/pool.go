package exec

import (
	"context"
	"sync"
)

// Pool runs independent named tasks with at most maxWorkers in flight.
type Pool struct {
	maxWorkers int
}

func NewPool(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Pool{maxWorkers: maxWorkers}
}

type TaskFunc func(ctx context.Context, name string) error

// Run calls fn once per name and returns each task's error keyed by name.
// Tasks not yet started when ctx is done record ctx.Err().
func (p *Pool) Run(ctx context.Context, names []string, fn TaskFunc) map[string]error {
	results := make(map[string]error, len(names))
	var mu sync.Mutex

	sem := make(chan struct{}, p.maxWorkers)
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				mu.Lock()
				results[name] = ctx.Err()
				mu.Unlock()
				return
			}

			err := fn(ctx, name)
			<-sem

			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name)
	}

	wg.Wait()

	return results
}
