package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// excludedOrderStatuses never count towards sales figures
var excludedOrderStatuses = []string{"cancelled", "void"}

// GormPopularityRepository implements intelligence.PopularityRepository using GORM raw SQL
type GormPopularityRepository struct {
	db *gorm.DB
}

// NewGormPopularityRepository creates a new GormPopularityRepository
func NewGormPopularityRepository(db *gorm.DB) *GormPopularityRepository {
	return &GormPopularityRepository{db: db}
}

// popularityRow is one row of the popularity CTE
type popularityRow struct {
	ProductRow
	UniqueCustomers     int64           `gorm:"column:unique_customers"`
	TotalOrders         int64           `gorm:"column:total_orders"`
	TotalQuantity       int64           `gorm:"column:total_quantity"`
	TotalRevenue        decimal.Decimal `gorm:"column:total_revenue"`
	MaxCustomerQuantity int64           `gorm:"column:max_customer_quantity"`
	TopCustomerName     *string         `gorm:"column:top_customer_name"`
	RecentQuantity      int64           `gorm:"column:recent_quantity"`
	PreviousQuantity    int64           `gorm:"column:previous_quantity"`
}

func (r popularityRow) toDomain() intelligence.SalesRollup {
	return intelligence.SalesRollup{
		Product:             r.ProductRow.toDomain(),
		UniqueCustomers:     r.UniqueCustomers,
		TotalOrders:         r.TotalOrders,
		TotalQuantity:       r.TotalQuantity,
		TotalRevenue:        r.TotalRevenue,
		MaxCustomerQuantity: r.MaxCustomerQuantity,
		TopCustomerName:     deref(r.TopCustomerName),
		RecentQuantity:      r.RecentQuantity,
		PreviousQuantity:    r.PreviousQuantity,
	}
}

// ListPopularity returns one page of product rollups and the number of eligible products.
// The count and the page are read concurrently.
func (r *GormPopularityRepository) ListPopularity(ctx context.Context, filter intelligence.PopularityFilter) ([]intelligence.SalesRollup, int64, error) {
	base := buildPopularityQuery(filter)

	count := base.wrap().write(" SELECT COUNT(*) FROM popularity")
	page := base.wrap().
		write(" SELECT * FROM popularity ORDER BY " + popularityOrderBy(filter.SortBy, filter.SortOrder)).
		write(" LIMIT ? OFFSET ?", filter.Limit, filter.Offset)

	var (
		total int64
		rows  []popularityRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Raw(count.SQL(), count.Args()...).Scan(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Raw(page.SQL(), page.Args()...).Scan(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list popularity: %w", err)
	}

	rollups := make([]intelligence.SalesRollup, len(rows))
	for i, row := range rows {
		rollups[i] = row.toDomain()
	}
	return rollups, total, nil
}

// buildPopularityQuery assembles the CTE chain ending in a "popularity" relation:
// per-customer facts, per-product rollup, top customer, trailing trend windows,
// then catalogue and website metadata with the listing filters applied.
func buildPopularityQuery(filter intelligence.PopularityFilter) *sqlQuery {
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}
	recentStart := now.AddDate(0, 0, -intelligence.TrendWindowDays)
	previousStart := now.AddDate(0, 0, -2*intelligence.TrendWindowDays)

	facts := &predicateSet{}
	if filter.Since != nil {
		facts.add("order_date >= ?", *filter.Since)
	}

	eligible := &predicateSet{}
	eligible.addIf(filter.MinOrders > 0, "pr.total_orders >= ?", filter.MinOrders)
	addBrandPredicates(eligible, "p.brand", filter.Brands, filter.Policy)
	switch filter.Website {
	case intelligence.WebsiteLive:
		eligible.add("wp.is_active = ?", true)
	case intelligence.WebsiteNotLive:
		eligible.add("(wp.id IS NULL OR wp.is_active = ?)", false)
	}

	q := &sqlQuery{}
	q.write(`WITH line_facts AS (
	SELECT oli.product_id, o.customer_id, o.id AS order_id, o.order_date, oli.quantity, oli.total
	FROM order_line_items oli
	JOIN orders o ON o.id = oli.order_id
	WHERE LOWER(COALESCE(o.status, '')) NOT IN ?
),
customer_sales AS (
	SELECT product_id, customer_id,
		SUM(quantity) AS quantity,
		SUM(total) AS revenue,
		COUNT(DISTINCT order_id) AS order_count
	FROM line_facts`, excludedOrderStatuses)
	q.writeWhere(facts)
	q.write(`
	GROUP BY product_id, customer_id
),
top_customer AS (
	SELECT product_id, customer_id,
		ROW_NUMBER() OVER (PARTITION BY product_id ORDER BY quantity DESC, customer_id ASC) AS rn
	FROM customer_sales
),
product_rollup AS (
	SELECT product_id,
		COUNT(DISTINCT customer_id)::bigint AS unique_customers,
		COALESCE(SUM(order_count), 0)::bigint AS total_orders,
		COALESCE(SUM(quantity), 0)::bigint AS total_quantity,
		COALESCE(SUM(revenue), 0)::numeric AS total_revenue,
		COALESCE(MAX(quantity), 0)::bigint AS max_customer_quantity
	FROM customer_sales
	GROUP BY product_id
),
trend_windows AS (
	SELECT product_id,
		COALESCE(SUM(CASE WHEN order_date >= ? THEN quantity ELSE 0 END), 0)::bigint AS recent_quantity,
		COALESCE(SUM(CASE WHEN order_date >= ? AND order_date < ? THEN quantity ELSE 0 END), 0)::bigint AS previous_quantity
	FROM line_facts
	WHERE order_date >= ?
	GROUP BY product_id
),
popularity AS (
	SELECT p.id, p.sku, p.name, p.brand, p.stock_on_hand, p.wholesale_rate, p.image_url,
		wp.id AS website_product_id, wp.retail_price, COALESCE(wp.is_active, false) AS website_active, wp.badge,
		pr.unique_customers, pr.total_orders, pr.total_quantity, pr.total_revenue, pr.max_customer_quantity,
		c.name AS top_customer_name,
		COALESCE(tw.recent_quantity, 0) AS recent_quantity,
		COALESCE(tw.previous_quantity, 0) AS previous_quantity
	FROM product_rollup pr
	JOIN products p ON p.id = pr.product_id
	LEFT JOIN website_products wp ON wp.product_id = p.id
	LEFT JOIN top_customer tc ON tc.product_id = pr.product_id AND tc.rn = 1
	LEFT JOIN customers c ON c.id = tc.customer_id
	LEFT JOIN trend_windows tw ON tw.product_id = pr.product_id`,
		recentStart, previousStart, recentStart, previousStart)
	q.writeWhere(eligible)
	q.write("\n)")
	return q
}

// popularityOrderBy renders the compound sort key: the whitelisted column,
// nulls last, then product id ascending.
func popularityOrderBy(field intelligence.SortField, order intelligence.SortOrder) string {
	column := ValidateSortField(string(field), PopularitySortFields, string(intelligence.SortUniqueCustomers))
	dir := ValidateSortOrder(string(order))

	var expr string
	switch intelligence.SortField(column) {
	case intelligence.SortTrend:
		expr = trendRankSQL("previous_quantity", "recent_quantity")
	case intelligence.SortName:
		expr = "LOWER(name)"
	default:
		expr = column
	}
	return expr + " " + dir + " NULLS LAST, id ASC"
}

// trendRankSQL mirrors intelligence.ClassifyTrend as a SQL expression yielding intelligence.TrendRank
func trendRankSQL(previous, recent string) string {
	return fmt.Sprintf(
		"(CASE WHEN %[1]s = 0 AND %[2]s > 0 THEN %[3]d"+
			" WHEN %[1]s > 0 AND %[2]s * 10 > %[1]s * %[4]d THEN %[5]d"+
			" WHEN %[1]s > 0 AND %[2]s * 10 < %[1]s * %[6]d THEN %[7]d"+
			" ELSE %[8]d END)",
		previous, recent,
		intelligence.TrendRank[intelligence.TrendNew],
		intelligence.TrendUpTenths, intelligence.TrendRank[intelligence.TrendUp],
		intelligence.TrendDownTenths, intelligence.TrendRank[intelligence.TrendDown],
		intelligence.TrendRank[intelligence.TrendStable],
	)
}

// addBrandPredicates restricts column to the requested brands and, when the
// allow-list is enforced, to the allowed brands. Comparison is case-insensitive.
func addBrandPredicates(p *predicateSet, column string, requested []string, policy intelligence.BrandPolicy) {
	requested = intelligence.NormalizeBrands(requested)
	switch len(requested) {
	case 0:
	case 1:
		p.add("LOWER("+column+") = ?", requested[0])
	default:
		p.add("LOWER("+column+") IN ?", requested)
	}
	if policy.Restrict {
		allowed := policy.Normalized()
		if len(allowed) == 0 {
			p.add("1 = 0")
			return
		}
		p.add("LOWER("+column+") IN ?", allowed)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
