package models

import (
	"github.com/shopspring/decimal"
	"github.com/splitfin/backend/internal/domain/intelligence"
)

// ProductModel is the persistence model for a catalogue product.
type ProductModel struct {
	ID            int64                `gorm:"primaryKey"`
	SKU           string               `gorm:"column:sku;type:varchar(64);index"`
	Name          string               `gorm:"type:varchar(255);not null"`
	Brand         string               `gorm:"type:varchar(120);index"`
	StockOnHand   int64                `gorm:"not null;default:0"`
	WholesaleRate decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	ImageURL      string               `gorm:"type:text"`
	TrackStock    bool                 `gorm:"not null;default:true"`
	Website       *WebsiteProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to the intelligence product view.
func (m *ProductModel) ToDomain() intelligence.Product {
	p := intelligence.Product{
		ID:            m.ID,
		SKU:           m.SKU,
		Name:          m.Name,
		Brand:         m.Brand,
		StockOnHand:   m.StockOnHand,
		WholesaleRate: m.WholesaleRate,
		ImageURL:      m.ImageURL,
	}
	if m.Website != nil {
		p.Website = m.Website.ToDomain()
	}
	return p
}

// WebsiteProductModel is the website listing for a product.
type WebsiteProductModel struct {
	ID          int64               `gorm:"primaryKey"`
	ProductID   int64               `gorm:"not null;uniqueIndex"`
	RetailPrice decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	IsActive    bool                `gorm:"not null;default:false"`
	Badge       string              `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (WebsiteProductModel) TableName() string {
	return "website_products"
}

// ToDomain converts the persistence model to a website publication.
func (m *WebsiteProductModel) ToDomain() *intelligence.WebsitePublication {
	return &intelligence.WebsitePublication{
		RetailPrice: m.RetailPrice,
		IsActive:    m.IsActive,
		Badge:       m.Badge,
	}
}
