package cache

import "go.uber.org/atomic"

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Insertions int64 `json:"insertions"`
	Evictions  int64 `json:"evictions"`
	Rejections int64 `json:"rejections"`

	Entries       int   `json:"entries"`
	Size          int64 `json:"size"`
	MaxSize       int64 `json:"max_size"`
	MaxObjectSize int64 `json:"max_object_size"`
}

type counters struct {
	hits       atomic.Int64
	misses     atomic.Int64
	insertions atomic.Int64
	evictions  atomic.Int64
	rejections atomic.Int64
}

// Stats returns a snapshot of the cache's counters and current occupancy.
func (c *LRU) Stats() Stats {
	c.gate.RLock()
	defer c.gate.RUnlock()

	return Stats{
		Hits:          c.stats.hits.Load(),
		Misses:        c.stats.misses.Load(),
		Insertions:    c.stats.insertions.Load(),
		Evictions:     c.stats.evictions.Load(),
		Rejections:    c.stats.rejections.Load(),
		Entries:       len(c.entries),
		Size:          c.size,
		MaxSize:       c.maxSize,
		MaxObjectSize: c.maxObjectSize,
	}
}
