package intelligence

import (
	"context"
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/domain/shared"
	"github.com/splitfin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// PopularityService ranks products by their sales
type PopularityService struct {
	repo   intelligence.PopularityRepository
	policy intelligence.BrandPolicy
	now    func() time.Time
}

// NewPopularityService creates a new PopularityService
func NewPopularityService(repo intelligence.PopularityRepository, policy intelligence.BrandPolicy) *PopularityService {
	return &PopularityService{
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

// List returns one page of popularity records, capped at 200 rows
func (s *PopularityService) List(ctx context.Context, q PopularityQuery) (*ListResult[intelligence.PopularityRecord], error) {
	return s.list(ctx, q, intelligence.DefaultLimit, intelligence.MaxLimit)
}

// ListForExport is List with the export row cap
func (s *PopularityService) ListForExport(ctx context.Context, q PopularityQuery) (*ListResult[intelligence.PopularityRecord], error) {
	return s.list(ctx, q, intelligence.MaxExportLimit, intelligence.MaxExportLimit)
}

func (s *PopularityService) list(ctx context.Context, q PopularityQuery, defaultLimit, maxLimit int) (*ListResult[intelligence.PopularityRecord], error) {
	if q.WebsiteOnly && q.WebsiteNotLive {
		return nil, shared.NewValidationError("website_only and website_not_live cannot both be set")
	}

	ctx, span := telemetry.StartSpan(ctx, "intelligence.popularity.list",
		attribute.String("date_range", string(q.DateRange)),
		attribute.String("sort_by", string(q.SortBy)),
	)
	filter := s.buildFilter(q, defaultLimit, maxLimit)
	rollups, total, err := s.repo.ListPopularity(ctx, filter)
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	records := make([]intelligence.PopularityRecord, len(rollups))
	for i, r := range rollups {
		records[i] = intelligence.NewPopularityRecord(r)
	}
	return &ListResult[intelligence.PopularityRecord]{
		Items: records,
		Page:  shared.Page{Total: total, Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func (s *PopularityService) buildFilter(q PopularityQuery, defaultLimit, maxLimit int) intelligence.PopularityFilter {
	now := s.now()
	limit, offset := clampPage(q.Limit, q.Offset, defaultLimit, maxLimit)

	minOrders := q.MinOrders
	if minOrders < 1 {
		minOrders = intelligence.DefaultMinOrders
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = intelligence.SortUniqueCustomers
	}
	sortOrder := q.SortOrder
	if sortOrder == "" {
		sortOrder = intelligence.SortDesc
	}
	dateRange := q.DateRange
	if dateRange == "" {
		dateRange = intelligence.DefaultDateRange
	}

	website := intelligence.WebsiteAny
	switch {
	case q.WebsiteOnly:
		website = intelligence.WebsiteLive
	case q.WebsiteNotLive:
		website = intelligence.WebsiteNotLive
	}

	return intelligence.PopularityFilter{
		Since:     dateRange.Since(now),
		Now:       now,
		Brands:    intelligence.NormalizeBrands(q.Brands),
		Policy:    s.policy,
		MinOrders: minOrders,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Limit:     limit,
		Offset:    offset,
		Website:   website,
	}
}
