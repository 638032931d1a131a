// Package intelligence holds the product intelligence read models: popularity
// rankings, reorder alerts, and market price discovery results.
package intelligence

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the catalogue view of a product as consumed by intelligence queries.
// The catalogue is owned elsewhere; these values are read-only here.
type Product struct {
	ID            int64               `json:"id"`
	SKU           string              `json:"sku"`
	Name          string              `json:"name"`
	Brand         string              `json:"brand"`
	StockOnHand   int64               `json:"stock_on_hand"`
	WholesaleRate decimal.Decimal     `json:"wholesale_rate"`
	ImageURL      string              `json:"image_url,omitempty"`
	Website       *WebsitePublication `json:"website,omitempty"`
}

// WebsitePublication is the optional website listing linked to a product
type WebsitePublication struct {
	RetailPrice decimal.NullDecimal `json:"retail_price"`
	IsActive    bool                `json:"is_active"`
	Badge       string              `json:"badge,omitempty"`
}

// RetailPrice returns the published website price when the product is live
func (p *Product) RetailPrice() *decimal.Decimal {
	if p.Website == nil || !p.Website.IsActive || !p.Website.RetailPrice.Valid {
		return nil
	}
	price := p.Website.RetailPrice.Decimal
	return &price
}

// BrandCount is a brand with the number of catalogue products carrying it
type BrandCount struct {
	Brand        string `json:"brand"`
	ProductCount int64  `json:"product_count"`
}

// BrandPolicy is the process-wide brand allow-list. When Restrict is false
// every brand is eligible and Brands is ignored.
type BrandPolicy struct {
	Restrict bool
	Brands   []string
}

// Allows reports whether products of the given brand are eligible
func (p BrandPolicy) Allows(brand string) bool {
	if !p.Restrict {
		return true
	}
	for _, b := range p.Brands {
		if strings.EqualFold(strings.TrimSpace(b), strings.TrimSpace(brand)) {
			return true
		}
	}
	return false
}

// Normalized returns the allow-listed brands lower-cased and trimmed, without blanks
func (p BrandPolicy) Normalized() []string {
	return NormalizeBrands(p.Brands)
}

// NormalizeBrands lower-cases and trims brand names, dropping blanks and duplicates
func NormalizeBrands(brands []string) []string {
	out := make([]string, 0, len(brands))
	seen := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// SplitBrands parses a brand query value: a single brand or a comma separated set
func SplitBrands(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return NormalizeBrands(strings.Split(raw, ","))
}
