package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/splitfin/backend/internal/domain/intelligence"
)

const defaultQuoteKeyPrefix = "pricecheck:quotes:"

// RedisQuoteCache implements intelligence.QuoteCache on Redis so every
// instance shares recent search results
type RedisQuoteCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisQuoteCache connects to Redis and verifies the connection
func NewRedisQuoteCache(cfg RedisConfig) (*RedisQuoteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisQuoteCacheWithClient(client, ""), nil
}

// NewRedisQuoteCacheWithClient wraps an existing client
func NewRedisQuoteCacheWithClient(client *redis.Client, keyPrefix string) *RedisQuoteCache {
	if keyPrefix == "" {
		keyPrefix = defaultQuoteKeyPrefix
	}
	return &RedisQuoteCache{client: client, keyPrefix: keyPrefix}
}

// Get implements intelligence.QuoteCache
func (c *RedisQuoteCache) Get(ctx context.Context, key string) (intelligence.SearchEvidence, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return intelligence.SearchEvidence{}, false, nil
	}
	if err != nil {
		return intelligence.SearchEvidence{}, false, fmt.Errorf("failed to read cached quotes: %w", err)
	}

	ev, err := decodeEvidence(data)
	if err != nil {
		return intelligence.SearchEvidence{}, false, err
	}
	return ev, true, nil
}

// Set implements intelligence.QuoteCache
func (c *RedisQuoteCache) Set(ctx context.Context, key string, evidence intelligence.SearchEvidence, ttl time.Duration) error {
	data, err := encodeEvidence(evidence)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache quotes: %w", err)
	}
	return nil
}

// Ping checks the Redis connection; used by the readiness probe
func (c *RedisQuoteCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisQuoteCache) Close() error {
	return c.client.Close()
}

var _ intelligence.QuoteCache = (*RedisQuoteCache)(nil)
