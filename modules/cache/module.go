package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// CacheModule provides the task-list cache as a mono module. When no
// Redis address is configured the module starts disabled and GetCache
// returns nil; the task service then reads straight through to the
// store.
type CacheModule struct {
	config Config
	client *redis.Client
	cache  *Cache
}

// Compile-time interface checks.
var _ mono.Module = (*CacheModule)(nil)
var _ mono.HealthCheckableModule = (*CacheModule)(nil)

// NewModule creates a new CacheModule.
func NewModule(config Config) *CacheModule {
	return &CacheModule{
		config: config,
	}
}

// Name returns the module name.
func (m *CacheModule) Name() string {
	return "cache"
}

// Start connects to Redis and builds the cache.
func (m *CacheModule) Start(ctx context.Context) error {
	if m.config.RedisAddr == "" {
		log.Println("[cache] No Redis address configured, cache disabled")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:         m.config.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.config.RedisAddr, err)
	}

	m.cache = New(m.client, m.config.Prefix, m.config.TTL)

	log.Printf("[cache] Module started (redis: %s, ttl: %s)", m.config.RedisAddr, m.config.TTL)
	return nil
}

// Stop closes the Redis connection.
func (m *CacheModule) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// GetCache returns the cache instance, or nil when disabled.
func (m *CacheModule) GetCache() *Cache {
	return m.cache
}

// Health returns the health status of the module.
func (m *CacheModule) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "disabled",
		}
	}

	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.GetStats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis":  m.config.RedisAddr,
			"hits":   stats.Hits,
			"misses": stats.Misses,
			"sets":   stats.Sets,
		},
	}
}
