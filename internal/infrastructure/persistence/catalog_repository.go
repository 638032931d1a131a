package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ProductRow holds the product and website columns shared by the raw listing queries.
// It is exported so GORM maps it when embedded in row structs.
type ProductRow struct {
	ID               int64               `gorm:"column:id"`
	SKU              string              `gorm:"column:sku"`
	Name             string              `gorm:"column:name"`
	Brand            string              `gorm:"column:brand"`
	StockOnHand      int64               `gorm:"column:stock_on_hand"`
	WholesaleRate    decimal.Decimal     `gorm:"column:wholesale_rate"`
	ImageURL         *string             `gorm:"column:image_url"`
	WebsiteProductID *int64              `gorm:"column:website_product_id"`
	RetailPrice      decimal.NullDecimal `gorm:"column:retail_price"`
	WebsiteActive    bool                `gorm:"column:website_active"`
	Badge            *string             `gorm:"column:badge"`
}

func (r ProductRow) toDomain() intelligence.Product {
	p := intelligence.Product{
		ID:            r.ID,
		SKU:           r.SKU,
		Name:          r.Name,
		Brand:         r.Brand,
		StockOnHand:   r.StockOnHand,
		WholesaleRate: r.WholesaleRate,
		ImageURL:      deref(r.ImageURL),
	}
	if r.WebsiteProductID != nil {
		p.Website = &intelligence.WebsitePublication{
			RetailPrice: r.RetailPrice,
			IsActive:    r.WebsiteActive,
			Badge:       deref(r.Badge),
		}
	}
	return p
}

// GormCatalogRepository implements intelligence.CatalogRepository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindByIDs returns the products with the given ids in ascending id order.
// Ids that do not exist are skipped.
func (r *GormCatalogRepository) FindByIDs(ctx context.Context, ids []int64) ([]intelligence.Product, error) {
	if len(ids) == 0 {
		return []intelligence.Product{}, nil
	}

	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Preload("Website").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find products by ids: %w", err)
	}

	products := make([]intelligence.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].ToDomain()
	}
	return products, nil
}

// ListBrands returns every non-blank brand with its product count, alphabetically
func (r *GormCatalogRepository) ListBrands(ctx context.Context, policy intelligence.BrandPolicy) ([]intelligence.BrandCount, error) {
	preds := &predicateSet{}
	preds.add("brand IS NOT NULL").add("TRIM(brand) <> ?", "")
	addBrandPredicates(preds, "brand", nil, policy)

	query := preds.apply(r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("brand, COUNT(*) AS product_count"))

	var brands []intelligence.BrandCount
	err := query.Group("brand").Order("brand ASC").Scan(&brands).Error
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	if brands == nil {
		brands = []intelligence.BrandCount{}
	}
	return brands, nil
}
