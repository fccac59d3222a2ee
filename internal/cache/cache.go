// Package cache holds a single value for a fixed time window.
package cache

import (
	"sync"
	"time"
)

// Value caches one T for ttl. Loads through GetOrLoad are serialized, so at
// most one load runs at a time.
type Value[T any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	value    T
	storedAt time.Time
	valid    bool
}

// New returns an empty cache. A non-positive ttl disables caching.
func New[T any](ttl time.Duration) *Value[T] {
	return &Value[T]{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; intended for tests.
func (c *Value[T]) WithClock(now func() time.Time) *Value[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

func (c *Value[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value if one is present and fresh.
func (c *Value[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freshLocked()
}

func (c *Value[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(v)
}

// Invalidate drops the cached value so the next GetOrLoad loads again.
func (c *Value[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.valid = false
}

// GetOrLoad returns the fresh cached value or stores and returns load().
func (c *Value[T]) GetOrLoad(load func() T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.freshLocked(); ok {
		return v
	}
	v := load()
	c.setLocked(v)
	return v
}

// ExpiresAt reports when the current value goes stale; zero if nothing is cached.
func (c *Value[T]) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return time.Time{}
	}
	return c.storedAt.Add(c.ttl)
}

func (c *Value[T]) freshLocked() (T, bool) {
	if !c.valid || c.now().Sub(c.storedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

func (c *Value[T]) setLocked(v T) {
	if c.ttl <= 0 {
		return
	}
	c.value = v
	c.storedAt = c.now()
	c.valid = true
}
