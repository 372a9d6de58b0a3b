package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appbilling "github.com/crm/backend/internal/application/billing"
)

// RedisSnapshotCache implements SnapshotCache using Redis.
// This is suitable for distributed deployments where multiple instances
// need to share cached snapshots.
type RedisSnapshotCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSnapshotCache creates a new Redis-based snapshot cache
func NewRedisSnapshotCache(cfg RedisConfig) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotCache{
		client:    client,
		keyPrefix: "crm:cache:",
	}, nil
}

// NewRedisSnapshotCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisSnapshotCacheWithClient(client *redis.Client, keyPrefix string) *RedisSnapshotCache {
	if keyPrefix == "" {
		keyPrefix = "crm:cache:"
	}
	return &RedisSnapshotCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a cached value and unmarshals it into dest.
// A cache miss returns (false, nil).
func (c *RedisSnapshotCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value for key %s: %w", key, err)
	}
	return true, nil
}

// Set stores a value under key with the given TTL
func (c *RedisSnapshotCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for cache key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a cached value
func (c *RedisSnapshotCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSnapshotCache implements SnapshotCache
var _ appbilling.SnapshotCache = (*RedisSnapshotCache)(nil)
