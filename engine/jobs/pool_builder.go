package jobs

import "time"

// PoolBuilderOption is a functional option for configuring a Pool.
type PoolBuilderOption func(*Pool)

// WithWorkers sets the maximum number of concurrent workers. Values <= 0 keep runtime.NumCPU.
func WithWorkers(n int) PoolBuilderOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets the task queue depth. Values <= 0 keep DefaultQueueSize.
func WithQueueSize(n int) PoolBuilderOption {
	return func(p *Pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle worker waits for work before exiting. Values <= 0 keep DefaultIdleTimeout.
func WithIdleTimeout(d time.Duration) PoolBuilderOption {
	return func(p *Pool) {
		if d > 0 {
			p.idleTimeout = d
		}
	}
}
