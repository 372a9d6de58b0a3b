package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	appbilling "github.com/crm/backend/internal/application/billing"
)

const defaultCleanupInterval = 30 * time.Second

// InMemorySnapshotCache implements SnapshotCache using in-memory storage.
// Suitable for single-instance deployments and testing; entries do not
// survive restarts and are not shared across processes.
type InMemorySnapshotCache struct {
	entries sync.Map // map[string]*cacheEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time.
// Values are stored JSON-encoded so Get behaves the same as the
// Redis implementation.
type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// InMemorySnapshotCacheOption is a functional option for configuring the cache
type InMemorySnapshotCacheOption func(*InMemorySnapshotCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemorySnapshotCacheOption {
	return func(c *InMemorySnapshotCache) {
		c.logger = logger
	}
}

// NewInMemorySnapshotCache creates a new in-memory snapshot cache
func NewInMemorySnapshotCache(opts ...InMemorySnapshotCacheOption) *InMemorySnapshotCache {
	cache := &InMemorySnapshotCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached value and unmarshals it into dest.
// A cache miss returns (false, nil).
func (c *InMemorySnapshotCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			if err := json.Unmarshal(entry.data, dest); err != nil {
				return false, err
			}
			return true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("cache miss", zap.String("key", key))
	return false, nil
}

// Set stores a value under key with the given TTL.
// A zero TTL caches the value without expiration.
func (c *InMemorySnapshotCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := &cacheEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.entries.Store(key, entry)
	return nil
}

// Delete removes a cached value
func (c *InMemorySnapshotCache) Delete(ctx context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}

// Close stops the background cleanup goroutine
func (c *InMemorySnapshotCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache hit/miss counters
func (c *InMemorySnapshotCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemorySnapshotCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.doCleanup()
		}
	}
}

func (c *InMemorySnapshotCache) doCleanup() {
	var removed int
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("cleaned up expired cache entries", zap.Int("removed", removed))
	}
}

// Ensure InMemorySnapshotCache implements SnapshotCache
var _ appbilling.SnapshotCache = (*InMemorySnapshotCache)(nil)
