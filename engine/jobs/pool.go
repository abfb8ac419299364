// Package jobs splits per-frame CPU work across a reusable set of worker goroutines.
package jobs

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const (
	// DefaultQueueSize is the task queue depth of the underlying worker pool.
	DefaultQueueSize = 256

	// DefaultIdleTimeout is how long an idle worker lingers before exiting.
	DefaultIdleTimeout = time.Second
)

// Pool fans a range of indices out across workers and waits for all of them.
type Pool struct {
	workers     int
	queueSize   int
	idleTimeout time.Duration

	pool   worker.DynamicWorkerPool
	taskID int
}

// NewPool creates a Pool. Workers default to runtime.NumCPU.
//
// Parameters:
//   - options: functional options for worker count, queue size and idle timeout
//
// Returns:
//   - *Pool: the pool, ready for ForEach
func NewPool(options ...PoolBuilderOption) *Pool {
	p := &Pool{
		workers:     runtime.NumCPU(),
		queueSize:   DefaultQueueSize,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range options {
		opt(p)
	}

	// Workers are reused across frames, so a per-frame ForEach does not spawn goroutines.
	p.pool = worker.NewDynamicWorkerPool(p.workers, p.queueSize, p.idleTimeout)
	return p
}

// Workers returns the maximum number of concurrent workers.
func (p *Pool) Workers() int {
	return p.workers
}

// ForEach calls fn for consecutive [start, end) ranges covering [0, n) and returns once every call
// has finished. A single range runs on the calling goroutine.
//
// ForEach is meant to be called from one goroutine at a time, typically the frame loop.
//
// Parameters:
//   - n: the number of indices to cover
//   - chunk: the range length; non-positive values split n evenly across the workers
//   - fn: the function called for each range; calls run concurrently and must not share writes
func (p *Pool) ForEach(n, chunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if chunk <= 0 {
		chunk = (n + p.workers - 1) / p.workers
	}
	if chunk >= n {
		fn(0, n)
		return
	}

	// pool.Wait blocks until workers idle out, so each call gets its own barrier.
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		s, e := start, end
		p.taskID++
		p.pool.SubmitTask(worker.Task{
			ID: p.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				fn(s, e)
				return nil, nil
			},
		})
	}
	wg.Wait()
}
