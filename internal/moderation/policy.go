package moderation

import (
	"sync"
	"time"
)

// Policy holds the moderation settings that may be hot-reloaded while the
// service runs: the banned-keyword list and the comment-list cache TTL.
// Reads and updates may happen concurrently from workers, readers, and the
// config watcher.
type Policy struct {
	mu       sync.RWMutex
	banned   []string
	cacheTTL time.Duration
}

// NewPolicy returns a Policy seeded from a comma-separated keyword list.
func NewPolicy(keywordCSV string, cacheTTL time.Duration) *Policy {
	p := &Policy{}
	p.Update(keywordCSV, cacheTTL)
	return p
}

// Update replaces the banned-keyword list and cache TTL atomically.
func (p *Policy) Update(keywordCSV string, cacheTTL time.Duration) {
	words := SplitKeywords(keywordCSV)
	p.mu.Lock()
	p.banned = words
	p.cacheTTL = cacheTTL
	p.mu.Unlock()
}

// BannedKeywords returns the current keyword list. The returned slice must
// not be mutated by callers.
func (p *Policy) BannedKeywords() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.banned
}

// CacheTTL returns the current comment-list cache TTL.
func (p *Policy) CacheTTL() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cacheTTL
}
