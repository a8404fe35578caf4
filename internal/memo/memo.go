// Package memo provides a TTL cache with retrying producers for I/O calls.
package memo

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// entry is one cached value with its creation time and time-to-live.
type entry struct {
	createdAt time.Time
	ttl       time.Duration
	value     any
}

// Cache memoizes the results of idempotent asynchronous fetches. Entries are
// lazily invalidated on read and overwritten on refresh; there is no
// proactive sweeping and no cross-key ordering guarantee. Concurrent misses
// for the same key each run their own producer, which is safe because the
// producers are idempotent GET-style fetches.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]entry
	attempts  int
	baseDelay time.Duration
	now       func() time.Time
}

// New creates a Cache whose producers are retried up to attempts times with
// exponential backoff starting at baseDelay.
func New(attempts int, baseDelay time.Duration) *Cache {
	return &Cache{
		entries:   make(map[string]entry),
		attempts:  attempts,
		baseDelay: baseDelay,
		now:       time.Now,
	}
}

// Len returns the number of entries currently held, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// lookup returns the cached value for key if it is still fresh.
func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= e.ttl {
		return nil, false
	}
	return e.value, true
}

// store overwrites any prior entry under key.
func (c *Cache) store(key string, ttl time.Duration, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{createdAt: c.now(), ttl: ttl, value: value}
}

// GetOrCompute returns the cached value under key when it is younger than its
// TTL; otherwise it invokes producer through the retry policy and stores the
// result under key with the given TTL. The last producer error is surfaced
// verbatim when all attempts are exhausted. The wrapper never swallows
// failures; callers decide whether a failed signal degrades or aborts.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		return v.(T), nil
	}

	v, err := retryCompute(ctx, c, producer)
	if err != nil {
		var zero T
		return zero, err
	}

	c.store(key, ttl, v)
	return v, nil
}

// newBackOff builds the deterministic doubling schedule for one computation.
// MaxInterval must stay effectively infinite so the schedule is exactly
// baseDelay * 2^attempt for every configured attempt count.
func (c *Cache) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0
	return b
}

// retryCompute runs producer up to c.attempts times with delays of
// baseDelay * 2^attempt between attempts. No jitter, no mid-retry cancellation
// beyond the context.
func retryCompute[T any](ctx context.Context, c *Cache, producer func(context.Context) (T, error)) (T, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.attempts-1)), ctx)
	return backoff.RetryWithData(func() (T, error) {
		return producer(ctx)
	}, policy)
}
