package cache

import (
	"fmt"

	"go.uber.org/zap"

	appbilling "github.com/crm/backend/internal/application/billing"
	"github.com/crm/backend/internal/infrastructure/config"
)

// SnapshotCacheFactory creates snapshot caches based on configuration
type SnapshotCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SnapshotCacheFactoryOption is a functional option for configuring the factory
type SnapshotCacheFactoryOption func(*SnapshotCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotCacheFactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SnapshotCacheFactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotCacheFactory creates a new factory
func NewSnapshotCacheFactory(cfg config.RedisConfig, opts ...SnapshotCacheFactoryOption) *SnapshotCacheFactory {
	f := &SnapshotCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-based snapshot cache
func (f *SnapshotCacheFactory) CreateRedisCache() (appbilling.SnapshotCache, error) {
	cache, err := NewRedisSnapshotCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis snapshot cache: %w", err)
	}

	return cache, nil
}

// CreateInMemoryCache creates an in-memory snapshot cache
func (f *SnapshotCacheFactory) CreateInMemoryCache() appbilling.SnapshotCache {
	return NewInMemorySnapshotCache(WithInMemoryLogger(f.logger))
}

// CreateCache creates a snapshot cache based on configuration.
// When Redis is disabled the in-memory cache is used directly; otherwise
// it tries Redis first and falls back to in-memory if allowed.
func (f *SnapshotCacheFactory) CreateCache() (appbilling.SnapshotCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory snapshot cache")
		return f.CreateInMemoryCache(), nil
	}

	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis snapshot cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for snapshot cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory snapshot cache. "+
		"Cached snapshots will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
