// Package gate bounds how many expensive dependency analyses run at once.
package gate

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate is a fair concurrency bound over sandboxed analyses. Waiters queue in
// FIFO order and a released permit is handed directly to the head waiter.
// Callers block rather than being rejected.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
	inUse    atomic.Int64
}

// New creates a Gate admitting at most capacity concurrent holders.
func New(capacity int) *Gate {
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Acquire blocks until a permit is available or the context is done, then
// returns the release callback for that permit. Release is idempotent.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	g.inUse.Add(1)

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.inUse.Add(-1)
			g.sem.Release(1)
		})
	}
	return release, nil
}

// InUse returns the number of permits currently held.
func (g *Gate) InUse() int {
	return int(g.inUse.Load())
}

// Cap returns the maximum number of concurrent holders.
func (g *Gate) Cap() int {
	return g.capacity
}
