package cache

import (
	"container/heap"
	"container/list"
	"fmt"
	"time"
)

// ttlEntry is one slot in the TTL cache. Entries with an expiry live in the
// expiry heap; entries without one live in the insertion-order list instead.
type ttlEntry[K comparable, V any] struct {
	key         K
	value       V
	createdAt   int64 // logical ms of creation or last overwrite
	accessCount uint64

	hasExpiry bool
	expiresAt int64  // logical ms, valid only when hasExpiry
	seq       uint64 // insertion order, breaks expiry ties
	heapIndex int    // position in the expiry heap, -1 when absent
	elem      *list.Element
}

// TTL is a fixed-capacity cache whose entries expire after a per-entry
// time-to-live. Expiry is lazy: entries past their deadline are detected on
// access or during an explicit Cleanup, never by a background timer.
//
// Time is a caller-driven logical clock in milliseconds. The cache never
// advances it on its own; production callers typically feed it
// time.Now().UnixMilli() via SetTime before a batch of operations, while
// tests drive it directly.
//
// TTL semantics:
//   - Put uses the default TTL given at construction. A default of 0 means
//     entries stored via Put never expire.
//   - PutWithTTL with a TTL of 0 stores an entry with a zero-length
//     lifetime: it is already expired.
//   - Negative TTLs are rejected with ErrInvalidConfig.
type TTL[K comparable, V any] struct {
	defaultTTL time.Duration
	maxSize    int
	now        int64 // logical clock, ms
	seq        uint64

	index    keyIndex[K, *ttlEntry[K, V]]
	expiries expiryHeap[K, V]
	immortal *list.List // entries without expiry, insertion order

	hits      uint64
	misses    uint64
	evictions uint64
	expired   uint64
}

var _ Store[string, int] = (*TTL[string, int])(nil)

// NewTTL creates a TTL cache holding at most maxSize entries. defaultTTL
// applies to entries stored via Put; zero means those entries never expire.
func NewTTL[K comparable, V any](defaultTTL time.Duration, maxSize int) (*TTL[K, V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: max size must be positive, got %d", ErrInvalidConfig, maxSize)
	}
	if defaultTTL < 0 {
		return nil, fmt.Errorf("%w: default ttl must be non-negative, got %v", ErrInvalidConfig, defaultTTL)
	}
	return &TTL[K, V]{
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		index:      newKeyIndex[K, *ttlEntry[K, V]](),
		immortal:   list.New(),
	}, nil
}

// Put stores value under key with the default TTL.
func (c *TTL[K, V]) Put(key K, value V) {
	c.put(key, value, c.defaultTTL > 0, c.defaultTTL)
}

// PutWithTTL stores value under key with an explicit TTL. A TTL of 0 yields
// an entry that is already expired; negative TTLs are rejected.
func (c *TTL[K, V]) PutWithTTL(key K, value V, ttl time.Duration) error {
	if ttl < 0 {
		return fmt.Errorf("%w: ttl must be non-negative, got %v", ErrInvalidConfig, ttl)
	}
	c.put(key, value, true, ttl)
	return nil
}

func (c *TTL[K, V]) put(key K, value V, hasExpiry bool, ttl time.Duration) {
	if e, ok := c.index.get(key); ok {
		e.value = value
		e.createdAt = c.now
		c.reschedule(e, hasExpiry, ttl)
		return
	}

	if c.index.len() >= c.maxSize {
		// Prefer reclaiming dead entries over evicting live ones.
		c.sweepExpired()
		if c.index.len() >= c.maxSize {
			c.evictEarliest()
		}
	}

	c.seq++
	e := &ttlEntry[K, V]{
		key:       key,
		value:     value,
		createdAt: c.now,
		seq:       c.seq,
		heapIndex: -1,
	}
	c.schedule(e, hasExpiry, ttl)
	c.index.put(key, e)
}

// Get returns the live value for key. An entry past its deadline is removed
// and counted as a miss, the same as an absent key.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	e, ok := c.index.get(key)
	if !ok {
		c.misses++
		return zero, false
	}
	if c.isExpired(e) {
		c.removeEntry(e)
		c.expired++
		c.misses++
		return zero, false
	}
	c.hits++
	e.accessCount++
	return e.value, true
}

// Peek returns the live value for key without touching counters. Expired
// entries read as absent but are not removed.
func (c *TTL[K, V]) Peek(key K) (V, bool) {
	e, ok := c.index.get(key)
	if !ok || c.isExpired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Contains reports whether key holds a live, unexpired value. It never
// mutates the cache or its statistics.
func (c *TTL[K, V]) Contains(key K) bool {
	e, ok := c.index.get(key)
	return ok && !c.isExpired(e)
}

// ExpiresAt returns the logical expiry time of key in milliseconds. ok is
// false when the key is absent, already expired, or never expires.
func (c *TTL[K, V]) ExpiresAt(key K) (int64, bool) {
	e, ok := c.index.get(key)
	if !ok || !e.hasExpiry || c.isExpired(e) {
		return 0, false
	}
	return e.expiresAt, true
}

// Remove deletes key and reports whether it was present. Expired-but-unswept
// entries count as present here, matching Len's lazy semantics.
func (c *TTL[K, V]) Remove(key K) bool {
	e, ok := c.index.get(key)
	if !ok {
		return false
	}
	c.removeEntry(e)
	return true
}

// Clear empties the cache. Historical counters and the clock are kept.
func (c *TTL[K, V]) Clear() {
	c.index.clear()
	c.expiries = nil
	c.immortal.Init()
}

// Len returns the number of stored entries, including entries that are past
// their deadline but not yet swept.
func (c *TTL[K, V]) Len() int {
	return c.index.len()
}

// Cleanup removes every expired entry and returns how many were removed.
// Intended for caller-driven maintenance; the cache never runs it implicitly.
func (c *TTL[K, V]) Cleanup() int {
	return c.sweepExpired()
}

// SetTime replaces the logical clock, in milliseconds.
func (c *TTL[K, V]) SetTime(ms int64) {
	c.now = ms
}

// AdvanceTime moves the logical clock forward by d.
func (c *TTL[K, V]) AdvanceTime(d time.Duration) {
	c.now += d.Milliseconds()
}

// Now returns the current logical clock in milliseconds.
func (c *TTL[K, V]) Now() int64 {
	return c.now
}

// Stats returns a snapshot of the cache counters.
func (c *TTL[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Expired:   c.expired,
		Len:       c.index.len(),
		MaxSize:   c.maxSize,
	}
}

// HitRate returns the fraction of lookups that hit.
func (c *TTL[K, V]) HitRate() float64 {
	return c.Stats().HitRate()
}

func (c *TTL[K, V]) isExpired(e *ttlEntry[K, V]) bool {
	return e.hasExpiry && e.expiresAt <= c.now
}

// schedule places a fresh entry into the expiry heap or the immortal list.
func (c *TTL[K, V]) schedule(e *ttlEntry[K, V], hasExpiry bool, ttl time.Duration) {
	if hasExpiry {
		e.hasExpiry = true
		e.expiresAt = c.now + ttl.Milliseconds()
		heap.Push(&c.expiries, e)
		return
	}
	e.hasExpiry = false
	e.elem = c.immortal.PushBack(e)
}

// reschedule updates an overwritten entry's expiry, moving it between the
// heap and the immortal list when its expiry kind changes.
func (c *TTL[K, V]) reschedule(e *ttlEntry[K, V], hasExpiry bool, ttl time.Duration) {
	switch {
	case e.hasExpiry && hasExpiry:
		e.expiresAt = c.now + ttl.Milliseconds()
		heap.Fix(&c.expiries, e.heapIndex)
	case e.hasExpiry && !hasExpiry:
		heap.Remove(&c.expiries, e.heapIndex)
		c.schedule(e, false, 0)
	case !e.hasExpiry && hasExpiry:
		c.immortal.Remove(e.elem)
		e.elem = nil
		c.schedule(e, true, ttl)
	}
}

// removeEntry unlinks e from the index and whichever ordering holds it.
func (c *TTL[K, V]) removeEntry(e *ttlEntry[K, V]) {
	c.index.remove(e.key)
	if e.hasExpiry {
		heap.Remove(&c.expiries, e.heapIndex)
	} else {
		c.immortal.Remove(e.elem)
		e.elem = nil
	}
}

// sweepExpired pops expired entries off the heap until the earliest
// remaining deadline is in the future.
func (c *TTL[K, V]) sweepExpired() int {
	removed := 0
	for len(c.expiries) > 0 && c.expiries[0].expiresAt <= c.now {
		e := heap.Pop(&c.expiries).(*ttlEntry[K, V])
		c.index.remove(e.key)
		c.expired++
		removed++
	}
	return removed
}

// evictEarliest removes the entry with the soonest deadline to make room.
// When every remaining entry is immortal there is no deadline to compare,
// so the oldest-inserted immortal entry goes instead.
func (c *TTL[K, V]) evictEarliest() {
	if len(c.expiries) > 0 {
		e := heap.Pop(&c.expiries).(*ttlEntry[K, V])
		c.index.remove(e.key)
		c.evictions++
		return
	}
	if front := c.immortal.Front(); front != nil {
		e := front.Value.(*ttlEntry[K, V])
		c.immortal.Remove(front)
		e.elem = nil
		c.index.remove(e.key)
		c.evictions++
	}
}

// expiryHeap is a min-heap over (expiresAt, seq). Ties on the deadline fall
// back to insertion order, keeping eviction deterministic.
type expiryHeap[K comparable, V any] []*ttlEntry[K, V]

func (h expiryHeap[K, V]) Len() int { return len(h) }

func (h expiryHeap[K, V]) Less(i, j int) bool {
	if h[i].expiresAt != h[j].expiresAt {
		return h[i].expiresAt < h[j].expiresAt
	}
	return h[i].seq < h[j].seq
}

func (h expiryHeap[K, V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *expiryHeap[K, V]) Push(x any) {
	e := x.(*ttlEntry[K, V])
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *expiryHeap[K, V]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}
