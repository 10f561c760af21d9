// Package framecache keeps rendered frames of stored recordings.
//
// Recordings never change after upload, so a frame is identified by the
// recording id and the parameters it was rendered with. The cache holds up
// to a byte budget; when it is exceeded the least recently used frames are
// evicted until a quarter of the budget is free again.
//
// Cache is safe for concurrent use and must not be copied.
package framecache

import (
	"cmp"
	"slices"
	"sync"
)

// Key identifies one rendered frame.
type Key struct {
	ID     string // recording id
	Params string // canonical encoding of the render parameters
}

type entry struct {
	data  []byte
	atime int64
}

// Cache is an LRU cache of frame data with a soft byte limit.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	size    int64
	limit   int64
	tick    int64 // access counter

	hits, misses uint64
}

// New creates a cache holding up to limit bytes. A limit <= 0 disables
// caching.
func New(limit int64) *Cache {
	return &Cache{entries: make(map[Key]*entry), limit: limit}
}

// Get returns the frame stored under k. The returned slice must not be
// modified.
func (c *Cache) Get(k Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.tick++
	e.atime = c.tick
	return e.data, true
}

// Set stores data under k. Frames larger than the whole budget are not
// kept.
func (c *Cache) Set(k Key, data []byte) {
	n := int64(len(data))
	if n > c.limit {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[k]; ok {
		c.size -= int64(len(old.data))
	}
	c.tick++
	c.entries[k] = &entry{data: data, atime: c.tick}
	c.size += n
	if c.size > c.limit {
		c.evict()
	}
}

// Forget drops every frame of the recording id.
func (c *Cache) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if k.ID == id {
			c.size -= int64(len(e.data))
			delete(c.entries, k)
		}
	}
}

// Stats reports the cache occupancy.
type Stats struct {
	Frames int
	Bytes  int64
	Hits   uint64
	Misses uint64
}

// Stats returns the current statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Frames: len(c.entries), Bytes: c.size, Hits: c.hits, Misses: c.misses}
}

// evict removes the oldest frames until the cache uses at most three
// quarters of its limit. Caller must hold c.mu.
func (c *Cache) evict() {
	type aged struct {
		key   Key
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.atime})
	}
	slices.SortFunc(all, func(a, b aged) int {
		return cmp.Compare(a.atime, b.atime)
	})

	target := c.limit * 3 / 4
	for _, a := range all {
		if c.size <= target {
			return
		}
		c.size -= int64(len(c.entries[a.key].data))
		delete(c.entries, a.key)
	}
}
