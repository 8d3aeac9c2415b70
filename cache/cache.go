// Package cache provides bounded in-memory key-value caches with two
// independent eviction policies: recency-based (LRU) and expiration-based
// (TTL). Both caches pair a hash index with an intrusive ordering structure
// so that promotion and eviction never scan the full key set.
//
// Cache instances assume a single logical owner and are not safe for
// concurrent use. Callers that share an instance across goroutines must
// serialize every operation with an external lock; the loading package
// provides a ready-made serialized read-through wrapper.
package cache

import "errors"

// ErrInvalidConfig is returned when a cache is constructed or used with
// parameters that make its invariants unsatisfiable, such as a non-positive
// capacity or a negative TTL.
var ErrInvalidConfig = errors.New("cache: invalid configuration")

// Store is the operation surface shared by the LRU and TTL caches.
type Store[K comparable, V any] interface {
	// Put stores a value under key, evicting another entry if the cache
	// is at capacity.
	Put(key K, value V)

	// Get returns the live value for key, recording a hit or miss.
	Get(key K) (V, bool)

	// Peek returns the live value for key without touching recency order
	// or statistics.
	Peek(key K) (V, bool)

	// Contains reports whether key holds a live value. It never mutates.
	Contains(key K) bool

	// Remove deletes key and reports whether it was present.
	Remove(key K) bool

	// Clear removes every entry. Historical counters are kept.
	Clear()

	// Len returns the number of stored entries.
	Len() int

	// Stats returns a snapshot of the cache counters.
	Stats() Stats
}

// Stats is a read-only snapshot of cache counters. It is produced by the
// owning cache; callers never mutate counters directly.
type Stats struct {
	Hits      uint64 // lookups that returned a live value
	Misses    uint64 // lookups that found nothing live
	Evictions uint64 // entries removed to satisfy the capacity bound
	Expired   uint64 // entries removed because their TTL elapsed
	Len       int    // entries currently stored
	MaxSize   int    // fixed capacity set at construction
}

// HitRate returns hits / (hits + misses), or 0 when no lookups happened.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// keyIndex is the O(1) key-to-slot lookup shared by both cache kinds. The
// slot type differs per cache (list node for LRU, heap entry for TTL).
type keyIndex[K comparable, S any] struct {
	slots map[K]S
}

func newKeyIndex[K comparable, S any]() keyIndex[K, S] {
	return keyIndex[K, S]{slots: make(map[K]S)}
}

func (ix *keyIndex[K, S]) get(key K) (S, bool) {
	s, ok := ix.slots[key]
	return s, ok
}

func (ix *keyIndex[K, S]) put(key K, slot S) {
	ix.slots[key] = slot
}

func (ix *keyIndex[K, S]) remove(key K) {
	delete(ix.slots, key)
}

func (ix *keyIndex[K, S]) contains(key K) bool {
	_, ok := ix.slots[key]
	return ok
}

func (ix *keyIndex[K, S]) len() int {
	return len(ix.slots)
}

func (ix *keyIndex[K, S]) clear() {
	ix.slots = make(map[K]S)
}
