package intelligence

import (
	"context"

	"github.com/splitfin/backend/internal/domain/intelligence"
)

// BrandService lists catalogue brands
type BrandService struct {
	repo   intelligence.CatalogRepository
	policy intelligence.BrandPolicy
}

// NewBrandService creates a new BrandService
func NewBrandService(repo intelligence.CatalogRepository, policy intelligence.BrandPolicy) *BrandService {
	return &BrandService{repo: repo, policy: policy}
}

// List returns each eligible brand with its product count
func (s *BrandService) List(ctx context.Context) ([]intelligence.BrandCount, error) {
	return s.repo.ListBrands(ctx, s.policy)
}
