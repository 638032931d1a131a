package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Tier outcomes recorded by PriceMetrics.
const (
	OutcomeHit     = "hit"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Synthesis outcomes recorded by PriceMetrics.
const (
	SynthesisOK       = "ok"
	SynthesisFallback = "fallback"
	SynthesisSkipped  = "skipped"
)

// PriceMetrics records how the price search tiers and market synthesis behave.
// A nil *PriceMetrics is valid and records nothing.
type PriceMetrics struct {
	tierAttempts  *Counter
	tierDuration  *Histogram
	cacheLookups  *Counter
	synthesis     *Counter
	checkDuration *Histogram
	checkProducts *Counter
}

// NewPriceMetrics registers the price check instruments on meter.
func NewPriceMetrics(meter metric.Meter) (*PriceMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewPriceMetrics: meter cannot be nil")
	}

	var (
		pm  PriceMetrics
		err error
	)
	if pm.tierAttempts, err = NewCounter(meter, "pricecheck_tier_attempts_total", "Price search tier attempts by outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if pm.tierDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "pricecheck_tier_duration_seconds",
		Description: "Duration of a single price search tier",
		Unit:        "s",
		Boundaries:  TierDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if pm.cacheLookups, err = NewCounter(meter, "pricecheck_cache_lookups_total", "Quote cache lookups", "{lookup}"); err != nil {
		return nil, err
	}
	if pm.synthesis, err = NewCounter(meter, "pricecheck_synthesis_total", "Market synthesis calls by outcome", "{call}"); err != nil {
		return nil, err
	}
	if pm.checkDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "pricecheck_batch_duration_seconds",
		Description: "End to end duration of a price check batch",
		Unit:        "s",
		Boundaries:  PriceCheckDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if pm.checkProducts, err = NewCounter(meter, "pricecheck_products_total", "Products submitted for price checks", "{product}"); err != nil {
		return nil, err
	}
	return &pm, nil
}

// RecordTier records one tier attempt.
func (pm *PriceMetrics) RecordTier(ctx context.Context, tier, outcome string, d time.Duration) {
	if pm == nil {
		return
	}
	pm.tierAttempts.Inc(ctx, AttrTier.String(tier), AttrOutcome.String(outcome))
	pm.tierDuration.RecordDuration(ctx, d, AttrTier.String(tier))
}

// RecordCacheLookup records a quote cache lookup.
func (pm *PriceMetrics) RecordCacheLookup(ctx context.Context, tier string, hit bool) {
	if pm == nil {
		return
	}
	pm.cacheLookups.Inc(ctx, AttrTier.String(tier), AttrCacheHit.Bool(hit))
}

// RecordSynthesis records the outcome of a market synthesis call.
func (pm *PriceMetrics) RecordSynthesis(ctx context.Context, outcome string) {
	if pm == nil {
		return
	}
	pm.synthesis.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordPriceCheck records a finished batch.
func (pm *PriceMetrics) RecordPriceCheck(ctx context.Context, products int, d time.Duration) {
	if pm == nil {
		return
	}
	pm.checkProducts.Add(ctx, int64(products))
	pm.checkDuration.RecordDuration(ctx, d)
}
