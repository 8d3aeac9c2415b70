// Package loading wraps a core cache with read-through loading. The core
// caches are single-owner by design; this wrapper supplies the external
// serialization they require and adds loader-on-miss memoization with
// duplicate-load suppression, the usual shape for session stores and
// computed-value caches.
package loading

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/onnwee/cachekit/cache"
)

// LoaderFunc fetches the value for a key from the backing store (database,
// API, expensive computation). It is called only on cache misses.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Cache is a concurrency-safe read-through cache over any cache.Store.
// Concurrent Gets for the same missing key share a single loader call;
// loader errors are returned to every waiter and never cached.
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	store cache.Store[K, V]
	load  LoaderFunc[K, V]
	group singleflight.Group
}

// New wraps store with loader-backed reads.
func New[K comparable, V any](store cache.Store[K, V], load LoaderFunc[K, V]) (*Cache[K, V], error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", cache.ErrInvalidConfig)
	}
	if load == nil {
		return nil, fmt.Errorf("%w: loader is required", cache.ErrInvalidConfig)
	}
	return &Cache[K, V]{store: store, load: load}, nil
}

// Get returns the cached value for key, loading and caching it on a miss.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	c.mu.Lock()
	v, ok := c.store.Get(key)
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	// singleflight keys are strings; %v gives a stable form for any
	// comparable key.
	flightKey := fmt.Sprintf("%v", key)
	res, err, _ := c.group.Do(flightKey, func() (any, error) {
		loaded, err := c.load(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.store.Put(key, loaded)
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Put stores a value directly, bypassing the loader.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Put(key, value)
}

// Forget invalidates key so the next Get reloads it. Reports whether the key
// was cached.
func (c *Cache[K, V]) Forget(key K) bool {
	c.group.Forget(fmt.Sprintf("%v", key))
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Remove(key)
}

// Contains reports whether key is cached and live.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Contains(key)
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// Stats returns a snapshot of the underlying cache's counters. Safe to call
// from a metrics scrape.
func (c *Cache[K, V]) Stats() cache.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Stats()
}
