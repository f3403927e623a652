package core

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs synchronous fan-out/fan-in loops over a fixed number of workers
type Pool struct {
	numWorkers int
}

// NewPool creates a pool with the specified number of workers; zero or
// negative means one per CPU.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// ParallelFor calls fn for every index in [0, count), handing out chunks of
// chunkSize consecutive indices to workers. It returns once every call has
// completed. Execution order across chunks is unspecified.
func (p *Pool) ParallelFor(count, chunkSize int, fn func(i int)) {
	if count <= 0 {
		return
	}
	if chunkSize <= 0 {
		chunkSize = 1
	}
	if p.numWorkers == 1 || count <= chunkSize {
		for i := 0; i < count; i++ {
			fn(i)
		}
		return
	}

	// The group only bounds concurrency; fn cannot fail, so Wait is always nil
	var g errgroup.Group
	g.SetLimit(p.numWorkers)
	for start := 0; start < count; start += chunkSize {
		start := start
		end := min(start+chunkSize, count)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}
