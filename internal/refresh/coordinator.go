// Package refresh coordinates recompute requests around the metrics
// engine. The engine itself is pure and synchronous; this layer owns the
// messy parts of calling it from a request-driven surface: collapsing
// duplicate in-flight triggers, debouncing rapid range changes, and making
// sure a stale computation never overwrites a fresher report.
package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fliptrack/fliptrack/internal/metrics"
)

// ComputeFunc performs one full fetch-and-compute cycle.
type ComputeFunc func(ctx context.Context) (metrics.Report, error)

type entry struct {
	report metrics.Report
	seq    uint64
	at     time.Time
}

// Coordinator deduplicates and orders recompute cycles per cache key.
type Coordinator struct {
	group       singleflight.Group
	minInterval time.Duration
	seq         atomic.Uint64

	mu   sync.Mutex
	last map[string]entry

	clock func() time.Time
}

// NewCoordinator constructs a Coordinator. minInterval is the debounce
// window; zero disables debouncing.
func NewCoordinator(minInterval time.Duration) *Coordinator {
	return &Coordinator{
		minInterval: minInterval,
		last:        make(map[string]entry),
		clock:       time.Now,
	}
}

// Refresh runs one recompute cycle for the key, which identifies the
// (user, range, currency) scope.
//
// Concurrent calls for the same key share a single execution. A call
// arriving inside the debounce window returns the stored report without
// recomputing. The stored report is only replaced when the finishing
// request is at least as new as the one that produced it: last-writer-wins
// by request ordering, not by resolution order.
func (c *Coordinator) Refresh(ctx context.Context, key string, fn ComputeFunc) (metrics.Report, error) {
	seq := c.seq.Add(1)
	now := c.clock()

	c.mu.Lock()
	if prev, ok := c.last[key]; ok && c.minInterval > 0 && now.Sub(prev.at) < c.minInterval {
		c.mu.Unlock()
		return prev.report, nil
	}
	c.mu.Unlock()

	resultCh := c.group.DoChan(key, func() (interface{}, error) {
		return fn(ctx)
	})

	select {
	case <-ctx.Done():
		return metrics.Report{}, ctx.Err()
	case res := <-resultCh:
		if res.Err != nil {
			return metrics.Report{}, res.Err
		}
		report := res.Val.(metrics.Report)
		c.store(key, report, seq)
		return report, nil
	}
}

// Last returns the most recent non-superseded report for the key.
func (c *Coordinator) Last(key string) (metrics.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.last[key]
	return e.report, ok
}

// Forget drops the stored report, forcing the next trigger to recompute.
func (c *Coordinator) Forget(key string) {
	c.mu.Lock()
	delete(c.last, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

func (c *Coordinator) store(key string, report metrics.Report, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.last[key]; ok && prev.seq > seq {
		// A newer request already landed; this result is stale.
		return
	}
	c.last[key] = entry{report: report, seq: seq, at: c.clock()}
}
