package intelligence

import (
	"context"
	"time"
)

// PopularityRepository reads aggregated sales facts
type PopularityRepository interface {
	// ListPopularity returns the page of rollups matching the filter and the total eligible count
	ListPopularity(ctx context.Context, filter PopularityFilter) ([]SalesRollup, int64, error)
}

// ReorderCandidate is a low-stock product with its recent sales volume
type ReorderCandidate struct {
	Product
	SoldLast30Days int64
}

// ReorderRepository reads low-stock products with their trailing sales
type ReorderRepository interface {
	// ListReorderCandidates returns the ordered page of candidates and the total count
	ListReorderCandidates(ctx context.Context, filter ReorderFilter, now time.Time) ([]ReorderCandidate, int64, error)
}

// CatalogRepository reads catalogue products
type CatalogRepository interface {
	// FindByIDs returns the products with the given ids; unknown ids are skipped
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)

	// ListBrands returns each brand with its product count
	ListBrands(ctx context.Context, policy BrandPolicy) ([]BrandCount, error)
}

// QuoteCache keeps recent search evidence so repeated price checks skip the
// external providers
type QuoteCache interface {
	// Get returns the cached evidence and whether the key was present
	Get(ctx context.Context, key string) (SearchEvidence, bool, error)

	// Set stores evidence for ttl
	Set(ctx context.Context, key string, evidence SearchEvidence, ttl time.Duration) error
}
