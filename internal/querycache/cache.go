// Package querycache deduplicates and caches proxy queries by key.
package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Freshness windows for cached results
const (
	DefaultStaleTime  = 5 * time.Minute
	ChannelStaleTime  = 10 * time.Minute
	CommentsStaleTime = 2 * time.Minute

	// DefaultSize bounds the number of cached results
	DefaultSize = 512

	// maxAge evicts entries the LRU still holds long after any stale time
	maxAge = 30 * time.Minute
)

// Stats holds cache performance counters
type Stats struct {
	Hits    int64 // fresh results served from cache
	Misses  int64 // fetches issued, shared or not
	Shared  int64 // callers that joined an in-flight fetch
	Entries int   // current number of cached results
}

// entry is a cached value with its own freshness deadline
type entry struct {
	value   any
	expires time.Time
}

// Cache coalesces concurrent fetches of the same key and keeps successful
// results fresh for a per-call window. Errors are never cached.
type Cache struct {
	lru    *expirable.LRU[string, entry]
	group  singleflight.Group
	now    func() time.Time
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	shared atomic.Int64
}

// New creates a cache holding at most size results
func New(size int, logger *slog.Logger) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		lru:    expirable.NewLRU[string, entry](size, nil, maxAge),
		now:    time.Now,
		logger: logger,
	}
}

// Get returns the fresh cached value for key or runs fetch once for all
// concurrent callers. The fetch runs with the first caller's context.
func Get[T any](ctx context.Context, c *Cache, key string, stale time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if stale <= 0 {
		stale = DefaultStaleTime
	}

	if e, ok := c.lru.Get(key); ok && c.now().Before(e.expires) {
		if v, ok := e.value.(T); ok {
			c.hits.Add(1)
			c.logger.Debug("query cache hit", "key", key)
			return v, nil
		}
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		c.misses.Add(1)
		result, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, entry{value: result, expires: c.now().Add(stale)})
		return result, nil
	})
	if shared {
		c.shared.Add(1)
	}
	if err != nil {
		return zero, err
	}
	result, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query cache: key %q holds %T", key, v)
	}
	return result, nil
}

// Invalidate drops every cached result whose key starts with prefix
func (c *Cache) Invalidate(prefix string) int {
	n := 0
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
			n++
		}
	}
	return n
}

// Purge drops every cached result
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Stats returns a snapshot of the counters
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Shared:  c.shared.Load(),
		Entries: c.lru.Len(),
	}
}
