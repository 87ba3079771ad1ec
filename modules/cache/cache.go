// Package cache provides a Redis-backed cache for the task list, used
// as a read-through optimization in front of the store.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/redis/go-redis/v9"
)

const listKey = "tasks:list"

// Stats tracks cache statistics.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Sets    uint64 `json:"sets"`
	Deletes uint64 `json:"deletes"`
	Errors  uint64 `json:"errors"`
}

// Config holds cache configuration.
type Config struct {
	RedisAddr string
	Prefix    string
	TTL       time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr: "localhost:6379",
		Prefix:    "taskboard:",
		TTL:       5 * time.Minute,
	}
}

// Cache stores the full task list as one snapshot entry. The snapshot
// is always replaced wholesale and invalidated wholesale; it is never
// partially updated. Redis failures are logged and treated as misses so
// the store stays authoritative.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	stats  *Stats
}

// New creates a new cache instance.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		stats:  &Stats{},
	}
}

// GetList retrieves the cached task list. The second return value is
// false on a miss.
func (c *Cache) GetList(ctx context.Context) ([]domain.Task, bool) {
	data, err := c.client.Get(ctx, c.prefix+listKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			atomic.AddUint64(&c.stats.Misses, 1)
			return nil, false
		}
		atomic.AddUint64(&c.stats.Errors, 1)
		log.Printf("[cache] get error: %v", err)
		return nil, false
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		log.Printf("[cache] unmarshal error: %v", err)
		return nil, false
	}

	atomic.AddUint64(&c.stats.Hits, 1)
	return tasks, true
}

// SetList replaces the cached task list and resets its TTL.
func (c *Cache) SetList(ctx context.Context, tasks []domain.Task) {
	data, err := json.Marshal(tasks)
	if err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		log.Printf("[cache] marshal error: %v", err)
		return
	}

	if err := c.client.Set(ctx, c.prefix+listKey, data, c.ttl).Err(); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		log.Printf("[cache] set error: %v", err)
		return
	}

	atomic.AddUint64(&c.stats.Sets, 1)
}

// Invalidate drops the cached task list.
func (c *Cache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, c.prefix+listKey).Err(); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		log.Printf("[cache] delete error: %v", err)
		return
	}
	atomic.AddUint64(&c.stats.Deletes, 1)
}

// GetStats returns a snapshot of the current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		Hits:    atomic.LoadUint64(&c.stats.Hits),
		Misses:  atomic.LoadUint64(&c.stats.Misses),
		Sets:    atomic.LoadUint64(&c.stats.Sets),
		Deletes: atomic.LoadUint64(&c.stats.Deletes),
		Errors:  atomic.LoadUint64(&c.stats.Errors),
	}
}

// Ping checks if the Redis connection is healthy.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
