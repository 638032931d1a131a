// Package cache stores price search evidence between price checks, in Redis
// when available and in process memory otherwise.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/splitfin/backend/internal/domain/intelligence"
)

// QuoteKey builds the cache key for a tier and normalized search query
func QuoteKey(tier, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return tier + ":" + hex.EncodeToString(sum[:12])
}

// cachedEvidence is the stored form of SearchEvidence; snippets are kept so a
// cache hit can still feed synthesis
type cachedEvidence struct {
	Tier     string                    `json:"tier"`
	Quotes   []intelligence.PriceQuote `json:"quotes"`
	Snippets []string                  `json:"snippets,omitempty"`
}

func encodeEvidence(ev intelligence.SearchEvidence) ([]byte, error) {
	data, err := json.Marshal(cachedEvidence{Tier: ev.Tier, Quotes: ev.Quotes, Snippets: ev.Snippets})
	if err != nil {
		return nil, fmt.Errorf("encode evidence: %w", err)
	}
	return data, nil
}

func decodeEvidence(data []byte) (intelligence.SearchEvidence, error) {
	var c cachedEvidence
	if err := json.Unmarshal(data, &c); err != nil {
		return intelligence.SearchEvidence{}, fmt.Errorf("decode evidence: %w", err)
	}
	if c.Quotes == nil {
		c.Quotes = []intelligence.PriceQuote{}
	}
	return intelligence.SearchEvidence{Tier: c.Tier, Quotes: c.Quotes, Snippets: c.Snippets}, nil
}
