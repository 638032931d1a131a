package cache

import (
	"context"
	"fmt"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// QuoteCacheFactory picks the quote cache backend from configuration
type QuoteCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// QuoteCacheFactoryOption is a functional option for configuring the factory
type QuoteCacheFactoryOption func(*QuoteCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) QuoteCacheFactoryOption {
	return func(f *QuoteCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) QuoteCacheFactoryOption {
	return func(f *QuoteCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewQuoteCacheFactory creates a new factory
func NewQuoteCacheFactory(cfg config.RedisConfig, opts ...QuoteCacheFactoryOption) *QuoteCacheFactory {
	f := &QuoteCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// QuoteCache is a quote cache that owns resources released by Close
type QuoteCache interface {
	intelligence.QuoteCache
	Close() error
}

// Pinger is implemented by caches backed by a remote store
type Pinger interface {
	Ping(ctx context.Context) error
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache if fallback is allowed
func (f *QuoteCacheFactory) CreateCache() (QuoteCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory quote cache")
		return NewInMemoryQuoteCache(), nil
	}

	c, err := NewRedisQuoteCache(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis quote cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for quote cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory quote cache", zap.Error(err))
	return NewInMemoryQuoteCache(), nil
}
