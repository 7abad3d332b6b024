// Package cache provides the tag-scoped read-through cache backing comment
// listings. Every entry carries one or more invalidation tags; flushing a tag
// invalidates all entries under it without enumerating keys.
package cache

import (
	"context"
	"time"
)

// PopulateFunc computes the value for a cache miss. It must only read durable
// state so that concurrent or repeated invocations are safe.
type PopulateFunc func(ctx context.Context) ([]byte, error)

// TaggedCache is a key/value cache with tag-based bulk invalidation.
type TaggedCache interface {
	// GetOrPopulate returns the cached value for key if present and
	// unexpired; otherwise it invokes populate, stores the result under key
	// with the given tags and ttl, and returns it. The bool reports whether
	// the value came from cache. Populate errors propagate and nothing is
	// cached.
	GetOrPopulate(ctx context.Context, key string, tags []string, ttl time.Duration, populate PopulateFunc) ([]byte, bool, error)

	// FlushTag invalidates every entry currently associated with tag.
	FlushTag(ctx context.Context, tag string) error
}
