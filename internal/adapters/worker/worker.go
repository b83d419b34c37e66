// Package worker runs independent jobs on a bounded number of goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/songplays/pkg/logger"
)

const defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()

// Job is one unit of work. Jobs must be safe to run concurrently.
type Job func(ctx context.Context) error

// Pool fans jobs out to a fixed number of workers.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool of size workers; size < 1 selects a CPU-based default.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		size: size,
		name: "worker-pool",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run executes every job and waits for them. The first failure cancels the
// context passed to the remaining jobs and is returned; jobs not yet started
// are skipped. A canceled parent context yields ErrStopped.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	workers := min(p.size, len(jobs))
	feed := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				if ctx.Err() != nil {
					continue
				}
				if err := jobs[i](ctx); err != nil {
					cancel(err)
				}
			}
		}()
	}

dispatch:
	for i := range jobs {
		select {
		case feed <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(feed)
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrStopped, err)
		}
		p.logger.Debug(ctx, "pool aborted", logger.Error(err), logger.Int("jobs", len(jobs)))
		return err
	}

	p.logger.Debug(ctx, "pool finished",
		logger.Int("jobs", len(jobs)),
		logger.Int("workers", workers),
		logger.Duration("elapsed", time.Since(start)),
	)
	return nil
}
