package intelligence

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SkewThreshold is the customer share (percent of quantity) above which a product is skewed
var SkewThreshold = decimal.NewFromInt(40)

// SalesRollup is one product's aggregated sales facts as read from the data store.
// It is derived per request and never persisted.
type SalesRollup struct {
	Product
	UniqueCustomers     int64
	TotalOrders         int64
	TotalQuantity       int64
	TotalRevenue        decimal.Decimal
	MaxCustomerQuantity int64
	TopCustomerName     string
	RecentQuantity      int64
	PreviousQuantity    int64
}

// PopularityRecord is a ranked product with its sales metrics
type PopularityRecord struct {
	Product
	UniqueCustomers     int64            `json:"unique_customers"`
	TotalOrders         int64            `json:"total_orders"`
	TotalQuantity       int64            `json:"total_quantity"`
	TotalRevenue        decimal.Decimal  `json:"total_revenue"`
	AvgQuantityPerOrder *decimal.Decimal `json:"avg_quantity_per_order"`
	MaxCustomerShare    *decimal.Decimal `json:"max_customer_share"`
	TopCustomerName     string           `json:"top_customer_name,omitempty"`
	IsSkewed            bool             `json:"is_skewed"`
	Trend               Trend            `json:"trend"`
	SoldLast30Days      int64            `json:"sold_last_30d"`
	SoldPrevious30Days  int64            `json:"sold_previous_30d"`
}

// NewPopularityRecord derives the ranked metrics from a rollup.
// Zero denominators yield nil rather than an error.
func NewPopularityRecord(r SalesRollup) PopularityRecord {
	rec := PopularityRecord{
		Product:            r.Product,
		UniqueCustomers:    r.UniqueCustomers,
		TotalOrders:        r.TotalOrders,
		TotalQuantity:      r.TotalQuantity,
		TotalRevenue:       r.TotalRevenue.Round(2),
		TopCustomerName:    r.TopCustomerName,
		Trend:              ClassifyTrend(r.RecentQuantity, r.PreviousQuantity),
		SoldLast30Days:     r.RecentQuantity,
		SoldPrevious30Days: r.PreviousQuantity,
	}
	if r.TotalOrders > 0 {
		avg := decimal.NewFromInt(r.TotalQuantity).DivRound(decimal.NewFromInt(r.TotalOrders), 2)
		rec.AvgQuantityPerOrder = &avg
	}
	if r.TotalQuantity > 0 {
		share := decimal.NewFromInt(r.MaxCustomerQuantity).
			Mul(decimal.NewFromInt(100)).
			DivRound(decimal.NewFromInt(r.TotalQuantity), 1)
		if share.GreaterThan(decimal.NewFromInt(100)) {
			share = decimal.NewFromInt(100)
		}
		if share.IsNegative() {
			share = decimal.Zero
		}
		rec.MaxCustomerShare = &share
		rec.IsSkewed = share.GreaterThan(SkewThreshold)
	}
	return rec
}

// SortField is a whitelisted popularity sort column
type SortField string

const (
	SortUniqueCustomers SortField = "unique_customers"
	SortTotalOrders     SortField = "total_orders"
	SortTotalQuantity   SortField = "total_quantity"
	SortTotalRevenue    SortField = "total_revenue"
	SortTrend           SortField = "trend"
	SortStockOnHand     SortField = "stock_on_hand"
	SortName            SortField = "name"
)

var sortFields = map[SortField]struct{}{
	SortUniqueCustomers: {},
	SortTotalOrders:     {},
	SortTotalQuantity:   {},
	SortTotalRevenue:    {},
	SortTrend:           {},
	SortStockOnHand:     {},
	SortName:            {},
}

// ParseSortField returns the named sort field, falling back to unique_customers
func ParseSortField(raw string) SortField {
	if _, ok := sortFields[SortField(raw)]; ok {
		return SortField(raw)
	}
	return SortUniqueCustomers
}

// SortOrder is asc or desc
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder returns asc for "asc" (any case) and desc otherwise
func ParseSortOrder(raw string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(raw), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// WebsiteState filters products on their website publication
type WebsiteState int

const (
	WebsiteAny WebsiteState = iota
	// WebsiteLive keeps only products with an active website listing
	WebsiteLive
	// WebsiteNotLive keeps products with no listing or an inactive one
	WebsiteNotLive
)

// PopularityFilter selects and orders popularity records
type PopularityFilter struct {
	Since     *time.Time
	Now       time.Time
	Brands    []string
	Policy    BrandPolicy
	MinOrders int
	SortBy    SortField
	SortOrder SortOrder
	Limit     int
	Offset    int
	Website   WebsiteState
}

// Popularity listing defaults
const (
	DefaultMinOrders = 2
	DefaultLimit     = 50
	MaxLimit         = 200
	MaxExportLimit   = 5000
)
