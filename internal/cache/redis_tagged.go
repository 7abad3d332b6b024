package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"pressbox/internal/middleware"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewRedisClient connects to Redis at addr (host:port or redis:// URL).
// Returns nil when the address is invalid or Redis is unreachable; callers
// treat a nil client as "no cache" and fail open.
func NewRedisClient(addr string) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return nil
	}
	return client
}

// RedisTaggedCache implements TaggedCache on Redis using a generation counter
// per tag. Entry keys embed the generations of their tags at write time;
// FlushTag bumps the tag's counter, which makes every previously written key
// unreachable without enumerating them. Orphaned entries age out via their
// TTL.
type RedisTaggedCache struct {
	client *redis.Client
}

// NewRedisTaggedCache wraps client in a tag-aware cache. A nil client yields
// a cache that always repopulates.
func NewRedisTaggedCache(client *redis.Client) *RedisTaggedCache {
	return &RedisTaggedCache{client: client}
}

func tagGenKey(tag string) string {
	return "cachetag:" + tag
}

// versionedKey resolves the current generation of every tag and folds them
// into the entry key. Tags are sorted so the same tag set always produces the
// same key.
func (c *RedisTaggedCache) versionedKey(ctx context.Context, key string, tags []string) (string, error) {
	if len(tags) == 0 {
		return key, nil
	}

	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)

	genKeys := make([]string, len(sorted))
	for i, tag := range sorted {
		genKeys[i] = tagGenKey(tag)
	}
	gens, err := c.client.MGet(ctx, genKeys...).Result()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(key)
	for i, tag := range sorted {
		gen := "0"
		if s, ok := gens[i].(string); ok {
			gen = s
		}
		fmt.Fprintf(&b, "|%s=%s", tag, gen)
	}
	return b.String(), nil
}

// GetOrPopulate implements TaggedCache. The tag generations are read before
// populate runs: if a flush lands mid-populate, the result is written under
// the pre-flush generation and is never served again.
func (c *RedisTaggedCache) GetOrPopulate(ctx context.Context, key string, tags []string, ttl time.Duration, populate PopulateFunc) ([]byte, bool, error) {
	if c.client == nil {
		value, err := populate(ctx)
		return value, false, err
	}

	vkey, err := c.versionedKey(ctx, key, tags)
	if err != nil {
		// Cache unreachable: serve from the source rather than failing the read.
		value, perr := populate(ctx)
		return value, false, perr
	}

	cached, err := c.client.Get(ctx, vkey).Bytes()
	if err == nil {
		middleware.CacheHits.WithLabelValues("redis").Inc()
		return cached, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		value, perr := populate(ctx)
		return value, false, perr
	}

	middleware.CacheMisses.WithLabelValues("redis").Inc()
	value, err := populate(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := c.client.Set(ctx, vkey, value, ttl).Err(); err != nil {
		log.Printf("cache store failed for %s: %v", key, err)
	}
	return value, false, nil
}

// FlushTag implements TaggedCache by incrementing the tag's generation
// counter.
func (c *RedisTaggedCache) FlushTag(ctx context.Context, tag string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, tagGenKey(tag)).Err()
}
