package intelligence

import (
	"context"
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/domain/shared"
	"github.com/splitfin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ReorderService lists low-stock products by urgency
type ReorderService struct {
	repo   intelligence.ReorderRepository
	policy intelligence.BrandPolicy
	now    func() time.Time
}

// NewReorderService creates a new ReorderService
func NewReorderService(repo intelligence.ReorderRepository, policy intelligence.BrandPolicy) *ReorderService {
	return &ReorderService{
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

// List returns one page of reorder alerts
func (s *ReorderService) List(ctx context.Context, q ReorderQuery) (*ListResult[intelligence.ReorderAlert], error) {
	return s.list(ctx, q, intelligence.DefaultLimit, intelligence.MaxLimit)
}

// ListForExport is List with the export row cap
func (s *ReorderService) ListForExport(ctx context.Context, q ReorderQuery) (*ListResult[intelligence.ReorderAlert], error) {
	return s.list(ctx, q, intelligence.MaxExportLimit, intelligence.MaxExportLimit)
}

func (s *ReorderService) list(ctx context.Context, q ReorderQuery, defaultLimit, maxLimit int) (*ListResult[intelligence.ReorderAlert], error) {
	limit, offset := clampPage(q.Limit, q.Offset, defaultLimit, maxLimit)
	threshold := q.Threshold
	if threshold < 0 {
		threshold = intelligence.DefaultReorderThreshold
	}

	filter := intelligence.ReorderFilter{
		Threshold: threshold,
		Policy:    s.policy,
		Limit:     limit,
		Offset:    offset,
	}

	ctx, span := telemetry.StartSpan(ctx, "intelligence.reorder.list", attribute.Int("threshold", threshold))
	candidates, total, err := s.repo.ListReorderCandidates(ctx, filter, s.now())
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	alerts := make([]intelligence.ReorderAlert, len(candidates))
	for i, c := range candidates {
		alerts[i] = intelligence.NewReorderAlert(c.Product, c.SoldLast30Days)
	}
	return &ListResult[intelligence.ReorderAlert]{
		Items: alerts,
		Page:  shared.Page{Total: total, Limit: limit, Offset: offset},
	}, nil
}
