package cache

import (
	"context"
	"log"
)

// Tiered is a cache that consults a shared Redis store when the in-process
// LRU misses. Redis failures are logged and treated as misses.
type Tiered struct {
	Primary   *LRU
	Secondary *RedisStore
	Logger    *log.Logger
}

// Get returns the entry for key from the primary cache, or failing that from
// the secondary store. Entries found in the secondary store are promoted into
// the primary cache.
func (t *Tiered) Get(key string) (Entry, bool) {
	if e, ok := t.Primary.Get(key); ok {
		return e, true
	}

	if t.Secondary == nil {
		return Entry{}, false
	}

	value, ok, err := t.Secondary.Get(context.Background(), key)
	if err != nil {
		t.logf("cache: redis lookup failed for %q: %s", key, err)
		return Entry{}, false
	} else if !ok {
		return Entry{}, false
	}

	size := int64(len(value))
	t.Primary.Insert(key, value, size)

	return Entry{key, value, size}, true
}

// Insert stores value in both tiers. Responses that are too large to cache
// are removed from both tiers instead.
func (t *Tiered) Insert(key string, value []byte, size int64) {
	t.Primary.Insert(key, value, size)

	if t.Secondary == nil {
		return
	}

	ctx := context.Background()

	if size > t.Primary.MaxObjectSize() || int64(len(value)) != size {
		if err := t.Secondary.Delete(ctx, key); err != nil {
			t.logf("cache: redis delete failed for %q: %s", key, err)
		}
		return
	}

	if err := t.Secondary.Put(ctx, key, value); err != nil {
		t.logf("cache: redis store failed for %q: %s", key, err)
	}
}

// MaxObjectSize returns the maximum size of a single cached value.
func (t *Tiered) MaxObjectSize() int64 {
	return t.Primary.MaxObjectSize()
}

func (t *Tiered) logf(format string, v ...interface{}) {
	if t.Logger != nil {
		t.Logger.Printf(format, v...)
	}
}
