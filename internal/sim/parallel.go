package sim

import (
	"context"
	"sync"

	"github.com/san-kum/turretlab/internal/dynamo"
)

// Build constructs a fresh simulator and initial state for run i of a
// sweep, seeded as the caller sees fit. Controllers are stateful, so runs
// never share one.
type Build func(i int) (*Simulator, dynamo.State, error)

// Sweep runs n independent simulations concurrently, at most workers at a
// time. Results keep run order. The first error wins.
func Sweep(ctx context.Context, n, workers int, cfg dynamo.Config, build Build) ([]*dynamo.Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*dynamo.Result, n)
	errs := make([]error, n)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			s, x0, err := build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, x0, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
