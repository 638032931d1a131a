package intelligence

import (
	"context"
	"fmt"
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/domain/shared"
	"github.com/splitfin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// PriceSearcher finds competitor prices for one product. It never fails;
// an empty evidence set means nothing was found.
type PriceSearcher interface {
	SearchPrices(ctx context.Context, name, brand string) intelligence.SearchEvidence
}

// Analyzer attaches a market verdict to each price check result
type Analyzer interface {
	Analyze(ctx context.Context, results []intelligence.PriceCheckResult, evidence map[int64]intelligence.SearchEvidence) []intelligence.PriceCheckResult
}

// PriceCheckService discovers market prices for a batch of products
type PriceCheckService struct {
	catalog  intelligence.CatalogRepository
	searcher PriceSearcher
	analyzer Analyzer
	policy   intelligence.BrandPolicy
	maxBatch int
	metrics  *telemetry.PriceMetrics
}

// NewPriceCheckService creates a new PriceCheckService. maxBatch is clamped to
// [1, HardMaxBatch].
func NewPriceCheckService(
	catalog intelligence.CatalogRepository,
	searcher PriceSearcher,
	analyzer Analyzer,
	policy intelligence.BrandPolicy,
	maxBatch int,
	metrics *telemetry.PriceMetrics,
) *PriceCheckService {
	if maxBatch <= 0 {
		maxBatch = intelligence.DefaultMaxBatch
	}
	if maxBatch > intelligence.HardMaxBatch {
		maxBatch = intelligence.HardMaxBatch
	}
	return &PriceCheckService{
		catalog:  catalog,
		searcher: searcher,
		analyzer: analyzer,
		policy:   policy,
		maxBatch: maxBatch,
		metrics:  metrics,
	}
}

// MaxBatch returns the largest accepted batch
func (s *PriceCheckService) MaxBatch() int {
	return s.maxBatch
}

// Check prices the requested products. Results follow the request order;
// unknown or brand-restricted ids are omitted. Only a catalogue read failure
// or a cancelled context is returned as an error.
func (s *PriceCheckService) Check(ctx context.Context, req PriceCheckRequest) ([]intelligence.PriceCheckResult, error) {
	if err := s.validate(req.ProductIDs); err != nil {
		return nil, err
	}
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "intelligence.price_check",
		attribute.Int("products.requested", len(req.ProductIDs)),
		attribute.Bool("analyze", req.Analyze),
	)

	products, err := s.catalog.FindByIDs(ctx, req.ProductIDs)
	if err != nil {
		telemetry.EndSpan(span, err)
		return nil, err
	}
	products = s.eligible(req.ProductIDs, products)

	results := make([]intelligence.PriceCheckResult, len(products))
	found := make([]intelligence.SearchEvidence, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxBatch)
	for i := range products {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := products[i]
			ev := s.searcher.SearchPrices(gctx, p.Name, p.Brand)
			found[i] = ev
			results[i] = newResult(p, ev)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.EndSpan(span, err)
		return nil, err
	}

	if req.Analyze && s.analyzer != nil {
		evidence := make(map[int64]intelligence.SearchEvidence, len(products))
		for i, p := range products {
			evidence[p.ID] = found[i]
		}
		results = s.analyzer.Analyze(ctx, results, evidence)
	}

	s.metrics.RecordPriceCheck(ctx, len(results), time.Since(start))
	span.SetAttributes(attribute.Int("products.priced", len(results)))
	telemetry.EndSpan(span, nil)
	return results, nil
}

func (s *PriceCheckService) validate(ids []int64) error {
	if len(ids) == 0 {
		return shared.NewValidationError("product_ids is required")
	}
	if len(ids) > s.maxBatch {
		return shared.NewValidationError(fmt.Sprintf("at most %d products can be checked at once", s.maxBatch))
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return shared.NewValidationError("product_ids must be positive")
		}
		if _, ok := seen[id]; ok {
			return shared.NewValidationError(fmt.Sprintf("product id %d is repeated", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// eligible orders products as requested and drops brands outside the policy
func (s *PriceCheckService) eligible(requested []int64, products []intelligence.Product) []intelligence.Product {
	byID := make(map[int64]intelligence.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]intelligence.Product, 0, len(products))
	for _, id := range requested {
		p, ok := byID[id]
		if !ok || !s.policy.Allows(p.Brand) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func newResult(p intelligence.Product, ev intelligence.SearchEvidence) intelligence.PriceCheckResult {
	return intelligence.PriceCheckResult{
		ProductID:      p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Brand:          p.Brand,
		OurPrice:       p.RetailPrice(),
		WholesalePrice: p.WholesaleRate,
		SearchTier:     ev.Tier,
		Quotes:         intelligence.DedupeQuotes(ev.Quotes),
	}
}
