// Package throttle provides a request-coalescing cache around a fetch
// function. Concurrent callers share a single in-flight fetch, and a
// successful result is served from cache for a fixed window afterwards.
// The cache can be invalidated explicitly, e.g. after a write to the
// underlying resource.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Cache wraps fetch so that it is called at most once per fill cycle,
// regardless of how many goroutines call Get concurrently.
type Cache[T any] struct {
	fetch  func(context.Context) (T, error)
	window time.Duration

	lock     sync.Mutex
	inflight *call[T]
	cached   *result[T]
}

// call is one fill cycle. Waiters block on done and then read value/err.
type call[T any] struct {
	done  chan struct{}
	value T
	err   error
}

type result[T any] struct {
	value  T
	expiry time.Time
}

// New returns a Cache around fetch. A successful fetch is served from cache
// for window, measured from the moment the fetch completed. window must not
// be negative.
func New[T any](fetch func(context.Context) (T, error), window time.Duration) *Cache[T] {
	if window < 0 {
		panic("throttle: negative window")
	}
	return &Cache[T]{fetch: fetch, window: window}
}

// Get returns the cached value, or fetches a new one. If a fetch is already
// in flight, Get waits for it and returns its outcome. Failed fetches are
// not cached: every caller of the failed cycle receives the error and the
// next Get starts a fresh fetch. Once started, a fetch runs to completion
// even if the caller that started it cancels its context.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.lock.Lock()
	if c.cached != nil && time.Now().Before(c.cached.expiry) {
		value := c.cached.value
		c.lock.Unlock()
		return value, nil
	}
	if f := c.inflight; f != nil {
		c.lock.Unlock()
		<-f.done
		return f.value, f.err
	}
	f := &call[T]{done: make(chan struct{})}
	c.inflight = f
	c.lock.Unlock()

	// the fetch is shared by every waiter of this cycle: one caller
	// cancelling must not fail the others, so it runs detached from the
	// initiating caller's cancellation
	f.value, f.err = c.fetch(context.WithoutCancel(ctx))

	c.lock.Lock()
	c.inflight = nil
	if f.err == nil {
		// the window starts when the response arrives, not when the
		// request was issued
		c.cached = &result[T]{value: f.value, expiry: time.Now().Add(c.window)}
	}
	c.lock.Unlock()
	close(f.done)

	return f.value, f.err
}

// Reset discards the cached value, so the next Get fetches again. It does not
// cancel an in-flight fetch: a fetch already running when Reset is called
// still completes and its result is cached as normal. Reset is safe to call
// when nothing is cached.
func (c *Cache[T]) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cached = nil
}
