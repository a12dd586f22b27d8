// Package cache provides a cost-bounded LRU cache for decoded images.
//
//	c := cache.New[string, *Buf](256 << 20)
//	c.Put("plate.png", buf, int64(len(buf.Pix))*4)
//	buf, ok := c.Get("plate.png")
package cache

import "sync"

// Cache is a thread-safe LRU cache bounded by the summed cost of its
// entries. Inserting past the limit evicts least recently used entries; the
// entry just inserted is always kept, even when its cost alone exceeds the
// limit.
//
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	order   list[K, V]
	limit   int64
	cost    int64

	hits, misses, evictions uint64
}

// New creates a cache holding at most limit cost units. A limit of 0 or less
// means unbounded.
func New[K comparable, V any](limit int64) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   limit,
	}
}

// Get returns the value stored under key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(n)
	return n.value, true
}

// Put stores value under key, replacing any previous value, and evicts old
// entries until the cache fits its limit again.
func (c *Cache[K, V]) Put(key K, value V, cost int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		c.cost += cost - n.cost
		n.value, n.cost = value, cost
		c.order.moveToFront(n)
	} else {
		n := &node[K, V]{key: key, value: value, cost: cost}
		c.entries[key] = n
		c.order.pushFront(n)
		c.cost += cost
	}
	c.evict()
}

// Remove drops key and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return false
	}
	c.drop(n)
	return true
}

// Purge drops every entry. Statistics are kept.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order = list[K, V]{}
	c.cost = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.entries),
		Cost:      c.cost,
		Limit:     c.limit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// evict drops the oldest entries while over the limit. Caller must hold c.mu.
func (c *Cache[K, V]) evict() {
	if c.limit <= 0 {
		return
	}
	for c.cost > c.limit && c.order.len > 1 {
		c.drop(c.order.tail)
		c.evictions++
	}
}

func (c *Cache[K, V]) drop(n *node[K, V]) {
	c.order.unlink(n)
	delete(c.entries, n.key)
	c.cost -= n.cost
}

// Stats contains cache statistics.
type Stats struct {
	Len   int
	Cost  int64
	Limit int64

	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
