package intelligence

import (
	"context"
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/stretchr/testify/mock"
)

type MockPopularityRepository struct {
	mock.Mock
}

func (m *MockPopularityRepository) ListPopularity(ctx context.Context, filter intelligence.PopularityFilter) ([]intelligence.SalesRollup, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]intelligence.SalesRollup), args.Get(1).(int64), args.Error(2)
}

type MockReorderRepository struct {
	mock.Mock
}

func (m *MockReorderRepository) ListReorderCandidates(ctx context.Context, filter intelligence.ReorderFilter, now time.Time) ([]intelligence.ReorderCandidate, int64, error) {
	args := m.Called(ctx, filter, now)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]intelligence.ReorderCandidate), args.Get(1).(int64), args.Error(2)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindByIDs(ctx context.Context, ids []int64) ([]intelligence.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]intelligence.Product), args.Error(1)
}

func (m *MockCatalogRepository) ListBrands(ctx context.Context, policy intelligence.BrandPolicy) ([]intelligence.BrandCount, error) {
	args := m.Called(ctx, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]intelligence.BrandCount), args.Error(1)
}

type MockPriceSearcher struct {
	mock.Mock
}

func (m *MockPriceSearcher) SearchPrices(ctx context.Context, name, brand string) intelligence.SearchEvidence {
	args := m.Called(ctx, name, brand)
	return args.Get(0).(intelligence.SearchEvidence)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockCompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}
