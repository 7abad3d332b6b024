package cache

import (
	"context"
	"sync"
	"time"

	"pressbox/internal/middleware"
)

type memoryEntry struct {
	value     []byte
	tags      []string
	expiresAt time.Time
}

// MemoryTaggedCache is an in-process TaggedCache keeping a reverse index from
// tag to member keys, guarded by a single mutex. FlushTag removes every
// tracked key for the tag synchronously before returning and bumps the tag's
// generation so in-flight populates cannot store results computed before the
// flush. Used when no Redis is configured and in tests.
type MemoryTaggedCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	byTag   map[string]map[string]struct{}
	gens    map[string]uint64
	now     func() time.Time
}

// NewMemoryTaggedCache returns an empty in-memory tagged cache.
func NewMemoryTaggedCache() *MemoryTaggedCache {
	return &MemoryTaggedCache{
		entries: make(map[string]memoryEntry),
		byTag:   make(map[string]map[string]struct{}),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

func (c *MemoryTaggedCache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.removeLocked(key, entry)
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryTaggedCache) removeLocked(key string, entry memoryEntry) {
	delete(c.entries, key)
	for _, tag := range entry.tags {
		if keys := c.byTag[tag]; keys != nil {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}

// GetOrPopulate implements TaggedCache. populate runs outside the lock, so
// concurrent misses for the same key may each populate; that is safe because
// populate only reads durable state. Tag generations are snapshotted before
// populate runs: a flush landing mid-populate bumps a generation, and the
// store step discards the now-stale result so the next read repopulates.
func (c *MemoryTaggedCache) GetOrPopulate(ctx context.Context, key string, tags []string, ttl time.Duration, populate PopulateFunc) ([]byte, bool, error) {
	if value, ok := c.lookup(key); ok {
		middleware.CacheHits.WithLabelValues("memory").Inc()
		return value, true, nil
	}
	middleware.CacheMisses.WithLabelValues("memory").Inc()

	snapshot := c.snapshotGens(tags)

	value, err := populate(ctx)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	if c.gensMovedLocked(snapshot) {
		c.mu.Unlock()
		return value, false, nil
	}
	if old, ok := c.entries[key]; ok {
		c.removeLocked(key, old)
	}
	tagsCopy := make([]string, len(tags))
	copy(tagsCopy, tags)
	c.entries[key] = memoryEntry{value: value, tags: tagsCopy, expiresAt: c.now().Add(ttl)}
	for _, tag := range tagsCopy {
		keys := c.byTag[tag]
		if keys == nil {
			keys = make(map[string]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	c.mu.Unlock()

	return value, false, nil
}

func (c *MemoryTaggedCache) snapshotGens(tags []string) map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]uint64, len(tags))
	for _, tag := range tags {
		snapshot[tag] = c.gens[tag]
	}
	return snapshot
}

func (c *MemoryTaggedCache) gensMovedLocked(snapshot map[string]uint64) bool {
	for tag, gen := range snapshot {
		if c.gens[tag] != gen {
			return true
		}
	}
	return false
}

// FlushTag implements TaggedCache by removing all entries indexed under tag
// and bumping the tag's generation to invalidate in-flight populates.
func (c *MemoryTaggedCache) FlushTag(_ context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[tag]++
	for key := range c.byTag[tag] {
		if entry, ok := c.entries[key]; ok {
			c.removeLocked(key, entry)
		}
	}
	delete(c.byTag, tag)
	return nil
}
