package intelligence

import (
	"github.com/shopspring/decimal"
)

// MarketPosition places our retail price relative to the market
type MarketPosition string

const (
	PositionBelow       MarketPosition = "below"
	PositionCompetitive MarketPosition = "competitive"
	PositionAbove       MarketPosition = "above"
	PositionUnknown     MarketPosition = "unknown"
)

// ParseMarketPosition returns the position or unknown for anything unrecognised
func ParseMarketPosition(raw string) MarketPosition {
	switch p := MarketPosition(raw); p {
	case PositionBelow, PositionCompetitive, PositionAbove:
		return p
	default:
		return PositionUnknown
	}
}

// Confidence grades a synthesized market verdict
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence returns the confidence or low for anything unrecognised
func ParseConfidence(raw string) Confidence {
	switch c := Confidence(raw); c {
	case ConfidenceHigh, ConfidenceMedium:
		return c
	default:
		return ConfidenceLow
	}
}

// MarketAnalysis is the market-position verdict for one product
type MarketAnalysis struct {
	MarketAvg   *decimal.Decimal `json:"market_avg"`
	MarketLow   *decimal.Decimal `json:"market_low"`
	MarketHigh  *decimal.Decimal `json:"market_high"`
	OurPosition MarketPosition   `json:"our_position"`
	Confidence  Confidence       `json:"confidence"`
	Sources     []string         `json:"sources"`
	Notes       string           `json:"notes"`
}

// FallbackAnalysis is the deterministic verdict used whenever synthesis is
// unavailable or fails. It never carries market figures.
func FallbackAnalysis(note string) MarketAnalysis {
	return MarketAnalysis{
		OurPosition: PositionUnknown,
		Confidence:  ConfidenceLow,
		Sources:     []string{},
		Notes:       note,
	}
}

// SearchEvidence is what price discovery collected for one product
type SearchEvidence struct {
	Tier     string       `json:"tier,omitempty"`
	Quotes   []PriceQuote `json:"quotes"`
	Snippets []string     `json:"-"`
}

// PriceCheckResult is the per-product outcome of a price check.
// Built per request and never persisted.
type PriceCheckResult struct {
	ProductID      int64            `json:"product_id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Brand          string           `json:"brand"`
	OurPrice       *decimal.Decimal `json:"our_price"`
	WholesalePrice decimal.Decimal  `json:"wholesale_price"`
	SearchTier     string           `json:"search_tier,omitempty"`
	Quotes         []PriceQuote     `json:"quotes"`
	Analysis       *MarketAnalysis  `json:"analysis,omitempty"`
}

// Price check batch limits
const (
	DefaultMaxBatch = 10
	HardMaxBatch    = 25
)
