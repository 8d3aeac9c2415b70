package cache

import (
	"fmt"
	"time"
)

// lruNode is one slot in the recency chain. The chain is doubly linked so
// promotion and eviction are pointer swaps, never scans.
type lruNode[K comparable, V any] struct {
	key         K
	value       V
	createdAt   int64 // unix ms, informational
	accessCount uint64
	prev, next  *lruNode[K, V]
}

// LRU is a fixed-capacity cache that evicts the least-recently-used entry
// when full. Reads and updates promote an entry to most-recently-used.
// All operations are O(1).
type LRU[K comparable, V any] struct {
	maxSize int
	index   keyIndex[K, *lruNode[K, V]]
	head    *lruNode[K, V] // least recently used
	tail    *lruNode[K, V] // most recently used

	hits      uint64
	misses    uint64
	evictions uint64
}

var _ Store[string, int] = (*LRU[string, int])(nil)

// NewLRU creates an LRU cache holding at most maxSize entries.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: max size must be positive, got %d", ErrInvalidConfig, maxSize)
	}
	return &LRU[K, V]{
		maxSize: maxSize,
		index:   newKeyIndex[K, *lruNode[K, V]](),
	}, nil
}

// Put stores value under key and marks it most-recently-used. Updating an
// existing key never changes the size and never evicts; inserting into a
// full cache evicts the least-recently-used entry first.
func (c *LRU[K, V]) Put(key K, value V) {
	if n, ok := c.index.get(key); ok {
		n.value = value
		c.moveToTail(n)
		return
	}

	if c.index.len() >= c.maxSize {
		c.evictHead()
	}

	n := &lruNode[K, V]{
		key:       key,
		value:     value,
		createdAt: time.Now().UnixMilli(),
	}
	c.index.put(key, n)
	c.pushTail(n)
}

// Get returns the value for key and promotes it to most-recently-used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	n, ok := c.index.get(key)
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	n.accessCount++
	c.moveToTail(n)
	return n.value, true
}

// Peek returns the value for key without promoting it or touching counters.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	n, ok := c.index.get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Contains reports whether key is present. Recency order and statistics are
// unaffected.
func (c *LRU[K, V]) Contains(key K) bool {
	return c.index.contains(key)
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	n, ok := c.index.get(key)
	if !ok {
		return false
	}
	c.index.remove(key)
	c.unlink(n)
	return true
}

// Clear empties the cache. Hit, miss, and eviction counters are kept.
func (c *LRU[K, V]) Clear() {
	c.index.clear()
	c.head = nil
	c.tail = nil
}

// Len returns the number of stored entries.
func (c *LRU[K, V]) Len() int {
	return c.index.len()
}

// Keys returns the keys in eviction order, least-recently-used first.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.index.len())
	for n := c.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.index.len(),
		MaxSize:   c.maxSize,
	}
}

// HitRate returns the fraction of lookups that hit.
func (c *LRU[K, V]) HitRate() float64 {
	return c.Stats().HitRate()
}

// evictHead removes the least-recently-used entry. The chain has a unique
// head, so eviction is deterministic.
func (c *LRU[K, V]) evictHead() {
	n := c.head
	if n == nil {
		return
	}
	c.index.remove(n.key)
	c.unlink(n)
	c.evictions++
}

func (c *LRU[K, V]) pushTail(n *lruNode[K, V]) {
	n.prev = c.tail
	n.next = nil
	if c.tail != nil {
		c.tail.next = n
	}
	c.tail = n
	if c.head == nil {
		c.head = n
	}
}

func (c *LRU[K, V]) unlink(n *lruNode[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (c *LRU[K, V]) moveToTail(n *lruNode[K, V]) {
	if c.tail == n {
		return
	}
	c.unlink(n)
	c.pushTail(n)
}
