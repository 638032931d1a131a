package intelligence

import (
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/domain/shared"
)

// ListResult is one page of an intelligence listing
type ListResult[T any] struct {
	Items []T
	Page  shared.Page
}

// PopularityQuery holds the already-coerced popularity filters
type PopularityQuery struct {
	DateRange      intelligence.DateRange
	Brands         []string
	MinOrders      int
	SortBy         intelligence.SortField
	SortOrder      intelligence.SortOrder
	Limit          int
	Offset         int
	WebsiteOnly    bool
	WebsiteNotLive bool
}

// ReorderQuery holds the already-coerced reorder filters
type ReorderQuery struct {
	Threshold int
	Limit     int
	Offset    int
}

// PriceCheckRequest names the products to price
type PriceCheckRequest struct {
	ProductIDs []int64
	Analyze    bool
}

// clampPage applies the listing defaults: a non-positive limit becomes the
// default, a limit above max is clamped, a negative offset becomes zero.
func clampPage(limit, offset, defaultLimit, max int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
