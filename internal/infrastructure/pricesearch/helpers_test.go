package pricesearch

import (
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/config"
)

func prices(quotes []intelligence.PriceQuote) []string {
	out := make([]string, len(quotes))
	for i, q := range quotes {
		out[i] = q.Price.StringFixed(2)
	}
	return out
}

func providerConfig(endpoint string) config.ProviderConfig {
	return config.ProviderConfig{Enabled: true, APIKey: "test-key", BaseURL: endpoint}
}

var lamp = Query{Name: "Tiffany Dragonfly Lamp", Brand: "Elstead"}
