// Package pool wraps ants with the small worker-pool surface shopstack
// needs: bounded concurrent dispatch with panic recovery and stats.
package pool

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
	"github.com/panjf2000/ants/v2"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Config defines the configuration for a worker pool.
type Config struct {
	// Capacity is the maximum number of concurrently running workers.
	Capacity int
	// ExpiryDuration is how long an idle worker is kept before reclaim.
	ExpiryDuration time.Duration
	// Nonblocking makes Submit fail instead of waiting when the pool is full.
	Nonblocking bool
}

// DefaultConfig returns a general-purpose pool configuration.
func DefaultConfig() *Config {
	return &Config{
		Capacity:       64,
		ExpiryDuration: 10 * time.Second,
	}
}

// AnalyticsConfig returns the configuration for the dashboard analytics
// fan-out. The branch count is small and latency-sensitive, so workers
// are kept warm a little longer.
func AnalyticsConfig() *Config {
	return &Config{
		Capacity:       16,
		ExpiryDuration: 30 * time.Second,
	}
}

// Pool is a bounded worker pool. Safe for concurrent use.
type Pool struct {
	name   string
	pool   *ants.Pool
	closed atomic.Bool

	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Panicked  int64 `json:"panicked"`
	Running   int   `json:"running"`
	Capacity  int   `json:"capacity"`
}

// New creates a worker pool with the given configuration.
func New(name string, config *Config) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}

	p := &Pool{name: name}

	antsPool, err := ants.NewPool(config.Capacity,
		ants.WithExpiryDuration(config.ExpiryDuration),
		ants.WithNonblocking(config.Nonblocking),
		ants.WithPanicHandler(func(r interface{}) {
			p.panicked.Add(1)
			logger.Errorw("worker panic recovered", "pool", name, "panic", r)
		}),
	)
	if err != nil {
		return nil, err
	}
	p.pool = antsPool

	return p, nil
}

// Submit schedules task on the pool.
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	err := p.pool.Submit(func() {
		defer p.completed.Add(1)
		task()
	})
	if err != nil {
		return err
	}

	p.submitted.Add(1)
	return nil
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Running:   p.pool.Running(),
		Capacity:  p.pool.Cap(),
	}
}

// Release shuts the pool down. Safe to call more than once.
func (p *Pool) Release() {
	if p.closed.Swap(true) {
		return
	}
	p.pool.Release()
}
