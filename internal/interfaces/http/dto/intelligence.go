package dto

import (
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
)

// PriceCheckRequest is the body of POST /price-check
// @Description Products to price against the market
type PriceCheckRequest struct {
	ProductIDs []int64 `json:"product_ids" binding:"required,min=1,unique,dive,gt=0" example:"101,102"`
	Analyze    *bool   `json:"analyze,omitempty" example:"true"`
}

// AnalyzeOrDefault returns the analyze flag, true when omitted
func (r PriceCheckRequest) AnalyzeOrDefault() bool {
	if r.Analyze == nil {
		return true
	}
	return *r.Analyze
}

// PriceCheckResponse is the body returned by POST /price-check
// @Description Per-product market quotes and verdicts
type PriceCheckResponse struct {
	Success bool                            `json:"success" example:"true"`
	Results []intelligence.PriceCheckResult `json:"results"`
}

// PopularityListResponse documents GET /popularity
// @Description A page of ranked products
type PopularityListResponse struct {
	Success bool                            `json:"success" example:"true"`
	Data    []intelligence.PopularityRecord `json:"data"`
	Count   int                             `json:"count" example:"50"`
	Meta    Meta                            `json:"meta"`
}

// ReorderListResponse documents GET /reorder-alerts
// @Description A page of low-stock products
type ReorderListResponse struct {
	Success bool                        `json:"success" example:"true"`
	Data    []intelligence.ReorderAlert `json:"data"`
	Count   int                         `json:"count" example:"12"`
	Meta    Meta                        `json:"meta"`
}

// BrandListResponse documents GET /brands
// @Description Brands with catalogue product counts
type BrandListResponse struct {
	Success bool                      `json:"success" example:"true"`
	Data    []intelligence.BrandCount `json:"data"`
}

// ExportLink is returned when an export was uploaded to object storage
// @Description Presigned download location of an export file
type ExportLink struct {
	Key       string    `json:"key" example:"exports/popularity/2026-03-15/0b6c7c1e.xlsx"`
	URL       string    `json:"url" example:"https://exports.example.com/exports/popularity/2026-03-15/0b6c7c1e.xlsx?X-Amz-Signature=..."`
	ExpiresAt time.Time `json:"expires_at" example:"2026-03-15T12:15:00Z"`
}

// ErrorResponse documents the error envelope
// @Description Error envelope
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorInfo `json:"error"`
}
