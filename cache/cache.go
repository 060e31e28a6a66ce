// Package cache provides a sharded memoization cache with per-key
// in-flight deduplication.
//
// The cache guarantees at-most-one-computation-per-key: the first caller
// for a key computes the value while concurrent callers for the same key
// block on the pending entry and receive the same result. Callers for
// other keys are unaffected; only shard map access is serialized, never
// the computation itself.
//
// Invalidation is explicit. Keys are expected to embed version stamps of
// their inputs, so most stale entries simply become unreachable and age
// out; Invalidate exists for the cases where the owner wants the memory
// back immediately.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// Default configuration constants.
const (
	// DefaultShardCount is the number of shards for reduced lock
	// contention. Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 256

	// shardMask is used for fast shard selection.
	shardMask = DefaultShardCount - 1
)

// Hasher computes a hash for a key, used for shard selection.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Stats holds cache counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Waits     uint64 // calls that joined an in-flight computation
	Evictions uint64
	HitRate   float64
}

// entry holds a computed or pending value. done is closed when the value
// is ready; waiters block on it without holding the shard lock.
type entry[V any] struct {
	done  chan struct{}
	value V
	err   error
	atime int64
}

// shard is one lock domain of the cache.
type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[V]
	tick    int64
}

// Cache is a sharded memoization cache. See the package documentation for
// the concurrency contract.
//
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	shards   [DefaultShardCount]*shard[K, V]
	hasher   Hasher[K]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	waits     atomic.Uint64
	evictions atomic.Uint64
}

// New creates a cache with the given per-shard capacity.
// If capacity <= 0, DefaultCapacity is used.
func New[K comparable, V any](capacity int, hasher Hasher[K]) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[K, V]{hasher: hasher, capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{entries: make(map[K]*entry[V])}
	}
	return c
}

// getShard returns the shard for a key.
func (c *Cache[K, V]) getShard(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Get retrieves a completed value. Pending entries do not count as hits:
// Get never blocks.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	s := c.getShard(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		select {
		case <-e.done:
		default:
			ok = false
		}
	}
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.tick++
	e.atime = s.tick
	v, err := e.value, e.err
	s.mu.Unlock()
	if err != nil {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return v, true
}

// GetOrCompute returns the cached value for key, computing it with compute
// if absent. Concurrent callers for the same key wait for the single
// in-flight computation instead of recomputing. A computation that returns
// an error is not retained: the error propagates to every waiter and the
// entry is removed so a later call can retry.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	s := c.getShard(key)

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		s.tick++
		e.atime = s.tick
		s.mu.Unlock()

		select {
		case <-e.done:
			c.hits.Add(1)
		default:
			c.waits.Add(1)
			<-e.done
		}
		return e.value, e.err
	}

	e := &entry[V]{done: make(chan struct{})}
	s.tick++
	e.atime = s.tick
	s.entries[key] = e
	c.evictLocked(s)
	s.mu.Unlock()
	c.misses.Add(1)

	// Compute outside the lock; same-key callers wait on e.done, other
	// keys proceed freely.
	e.value, e.err = compute()
	close(e.done)

	if e.err != nil {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur == e {
			delete(s.entries, key)
		}
		s.mu.Unlock()
	}
	return e.value, e.err
}

// evictLocked removes the oldest completed entries while over capacity.
// Pending entries are never evicted; waiters hold references to them.
func (c *Cache[K, V]) evictLocked(s *shard[K, V]) {
	for len(s.entries) > c.capacity {
		var oldestKey K
		var oldest *entry[V]
		for k, e := range s.entries {
			select {
			case <-e.done:
			default:
				continue
			}
			if oldest == nil || e.atime < oldest.atime {
				oldestKey, oldest = k, e
			}
		}
		if oldest == nil {
			return
		}
		delete(s.entries, oldestKey)
		c.evictions.Add(1)
	}
}

// Invalidate removes an entry. Returns true if it was present.
// An in-flight computation is detached rather than interrupted: current
// waiters still receive its result, but no future caller will.
func (c *Cache[K, V]) Invalidate(key K) bool {
	s := c.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		return true
	}
	return false
}

// Clear removes all entries from every shard.
func (c *Cache[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[K]*entry[V])
		s.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (c *Cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       c.Len(),
		Hits:      hits,
		Misses:    misses,
		Waits:     c.waits.Load(),
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}
