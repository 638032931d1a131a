package pricesearch

import (
	"context"
	"errors"
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/cache"
	"github.com/splitfin/backend/internal/infrastructure/logger"
	"github.com/splitfin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultTierTimeout bounds each tier when none is configured
const DefaultTierTimeout = 5 * time.Second

// emptyTTLDivisor shortens the cache lifetime of empty results
const emptyTTLDivisor = 6

// Chain tries each provider in order and returns the first tier that yields
// quotes. It never returns an error: every failure is logged and the next
// tier is tried, and exhausting the chain yields empty evidence.
type Chain struct {
	providers   []Provider
	tierTimeout time.Duration
	cache       intelligence.QuoteCache
	cacheTTL    time.Duration
	metrics     *telemetry.PriceMetrics
	logger      *zap.Logger
}

// ChainOption configures a Chain
type ChainOption func(*Chain)

// WithTierTimeout sets the per-tier deadline
func WithTierTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		if d > 0 {
			c.tierTimeout = d
		}
	}
}

// WithCache caches chain results for ttl
func WithCache(qc intelligence.QuoteCache, ttl time.Duration) ChainOption {
	return func(c *Chain) {
		c.cache = qc
		c.cacheTTL = ttl
	}
}

// WithMetrics records tier and cache metrics
func WithMetrics(m *telemetry.PriceMetrics) ChainOption {
	return func(c *Chain) {
		c.metrics = m
	}
}

// WithChainLogger sets the fallback logger used when the context has none
func WithChainLogger(l *zap.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = l
	}
}

// NewChain creates a chain over providers in priority order
func NewChain(providers []Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		providers:   providers,
		tierTimeout: DefaultTierTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPrices runs the chain for a product name and brand
func (c *Chain) SearchPrices(ctx context.Context, name, brand string) intelligence.SearchEvidence {
	return c.Search(ctx, Query{Name: name, Brand: brand})
}

// Search runs the chain for one product
func (c *Chain) Search(ctx context.Context, q Query) intelligence.SearchEvidence {
	log := c.log(ctx).With(zap.String("product", q.Terms()))
	key := cache.QuoteKey("chain", q.Terms())

	if ev, ok := c.cached(ctx, log, key); ok {
		return ev
	}

	for _, p := range c.providers {
		if ctx.Err() != nil {
			return emptyEvidence("")
		}
		if !p.Configured() {
			log.Debug("price tier not configured, skipping", zap.String("tier", p.Tier()))
			continue
		}

		ev, ok := c.runTier(ctx, log, p, q)
		if ok {
			c.store(ctx, log, key, ev, c.cacheTTL)
			return ev
		}
	}

	empty := emptyEvidence("")
	c.store(ctx, log, key, empty, c.cacheTTL/emptyTTLDivisor)
	return empty
}

func (c *Chain) runTier(ctx context.Context, log *zap.Logger, p Provider, q Query) (intelligence.SearchEvidence, bool) {
	tierCtx, cancel := context.WithTimeout(ctx, c.tierTimeout)
	defer cancel()

	tierCtx, span := telemetry.StartSpan(tierCtx, "pricesearch.tier", attribute.String("pricing.tier", p.Tier()))
	start := time.Now()
	ev, err := p.Search(tierCtx, q)
	elapsed := time.Since(start)
	telemetry.EndSpan(span, err)

	switch {
	case err != nil:
		outcome := telemetry.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(tierCtx.Err(), context.DeadlineExceeded) {
			outcome = telemetry.OutcomeTimeout
		}
		c.metrics.RecordTier(ctx, p.Tier(), outcome, elapsed)
		log.Warn("price tier failed",
			zap.String("provider", p.Tier()),
			zap.String("tier", p.Tier()),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return intelligence.SearchEvidence{}, false
	case len(ev.Quotes) == 0:
		c.metrics.RecordTier(ctx, p.Tier(), telemetry.OutcomeEmpty, elapsed)
		log.Debug("price tier returned no quotes", zap.String("tier", p.Tier()))
		return intelligence.SearchEvidence{}, false
	default:
		c.metrics.RecordTier(ctx, p.Tier(), telemetry.OutcomeHit, elapsed)
		ev.Tier = p.Tier()
		return ev, true
	}
}

func (c *Chain) cached(ctx context.Context, log *zap.Logger, key string) (intelligence.SearchEvidence, bool) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return intelligence.SearchEvidence{}, false
	}
	ev, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn("quote cache read failed", zap.Error(err))
		return intelligence.SearchEvidence{}, false
	}
	c.metrics.RecordCacheLookup(ctx, "chain", ok)
	return ev, ok
}

func (c *Chain) store(ctx context.Context, log *zap.Logger, key string, ev intelligence.SearchEvidence, ttl time.Duration) {
	if c.cache == nil || ttl <= 0 || ctx.Err() != nil {
		return
	}
	if err := c.cache.Set(ctx, key, ev, ttl); err != nil {
		log.Warn("quote cache write failed", zap.Error(err))
	}
}

func (c *Chain) log(ctx context.Context) *zap.Logger {
	return logger.LOr(ctx, c.logger)
}
