package cache

import (
	"sync"
)

// Entry is a cached response body.
type Entry struct {
	Key   string
	Value []byte
	Size  int64
}

// LRU is a size-bounded cache of response bodies with least-recently-used
// eviction.
//
// Lookups run concurrently with each other. Insertions are exclusive and wait
// for every in-flight lookup to finish. See gate for the fairness trade-off.
type LRU struct {
	maxSize       int64
	maxObjectSize int64

	gate *gate

	// order guards the list links while lookups, which only hold the gate
	// for reading, move entries to the front.
	order sync.Mutex

	entries map[string]*node
	recency list
	size    int64

	stats counters
}

// New returns an empty cache that holds at most maxSize bytes in total, and
// never holds a single value larger than maxObjectSize bytes.
func New(maxSize, maxObjectSize int64) *LRU {
	c := &LRU{
		maxSize:       maxSize,
		maxObjectSize: maxObjectSize,
		gate:          newGate(),
		entries:       map[string]*node{},
	}
	c.recency.init()

	return c
}

// MaxSize returns the maximum total size of all cached values.
func (c *LRU) MaxSize() int64 {
	return c.maxSize
}

// MaxObjectSize returns the maximum size of a single cached value.
func (c *LRU) MaxObjectSize() int64 {
	return c.maxObjectSize
}

// Get returns the entry for key and makes it the most recently used entry.
// ok is false if key is not cached, in which case the cache is unchanged.
//
// The returned value must not be modified.
func (c *LRU) Get(key string) (e Entry, ok bool) {
	c.gate.RLock()
	defer c.gate.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		c.stats.misses.Inc()
		return Entry{}, false
	}

	c.order.Lock()
	c.recency.moveToFront(n)
	c.order.Unlock()

	c.stats.hits.Inc()

	return Entry{n.key, n.value, n.size}, true
}

// Insert stores value under key as the most recently used entry, replacing
// any existing entry for key.
//
// size is the total size of the response. A response larger than the object
// limit, or larger than the whole cache, is never stored and any existing
// entry for key is removed. The same applies when size does not match
// len(value), which is the case for a response that was only partly retained.
//
// Least recently used entries are evicted, one at a time, until there is
// room for the new entry.
func (c *LRU) Insert(key string, value []byte, size int64) {
	c.gate.Lock()
	defer c.gate.Unlock()

	n, exists := c.entries[key]

	if size > c.maxObjectSize || size > c.maxSize || int64(len(value)) != size {
		if exists {
			c.remove(n)
		}
		c.stats.rejections.Inc()
		return
	}

	if exists {
		c.recency.unlink(n)
		c.size -= n.size
	} else {
		n = &node{key: key}
		c.entries[key] = n
	}

	n.value = value
	n.size = size

	for c.size+size > c.maxSize {
		victim := c.recency.back()
		if victim == nil {
			break
		}
		c.remove(victim)
		c.stats.evictions.Inc()
	}

	c.recency.pushFront(n)
	c.size += size
	c.stats.insertions.Inc()
}

// Remove deletes the entry for key, if any. It returns true if an entry was
// removed.
func (c *LRU) Remove(key string) bool {
	c.gate.Lock()
	defer c.gate.Unlock()

	n, ok := c.entries[key]
	if ok {
		c.remove(n)
	}

	return ok
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	c.gate.RLock()
	defer c.gate.RUnlock()

	return len(c.entries)
}

// Size returns the total size of all cached values.
func (c *LRU) Size() int64 {
	c.gate.RLock()
	defer c.gate.RUnlock()

	return c.size
}

// Keys returns the cached keys, from most to least recently used.
func (c *LRU) Keys() []string {
	c.gate.RLock()
	defer c.gate.RUnlock()

	c.order.Lock()
	defer c.order.Unlock()

	keys := make([]string, 0, len(c.entries))
	for n := c.recency.head.next; n != &c.recency.tail; n = n.next {
		keys = append(keys, n.key)
	}

	return keys
}

// remove unlinks n and forgets its key. The gate must be held exclusively.
func (c *LRU) remove(n *node) {
	c.recency.unlink(n)
	delete(c.entries, n.key)
	c.size -= n.size
}
