package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// GormReorderRepository implements intelligence.ReorderRepository using GORM raw SQL
type GormReorderRepository struct {
	db *gorm.DB
}

// NewGormReorderRepository creates a new GormReorderRepository
func NewGormReorderRepository(db *gorm.DB) *GormReorderRepository {
	return &GormReorderRepository{db: db}
}

type reorderRow struct {
	ProductRow
	SoldLast30Days int64 `gorm:"column:sold_last_30d"`
}

// ListReorderCandidates returns stock-tracked, website-live products at or below the
// threshold, most urgent first: days remaining ascending with nulls last, then stock on
// hand ascending, then id.
func (r *GormReorderRepository) ListReorderCandidates(ctx context.Context, filter intelligence.ReorderFilter, now time.Time) ([]intelligence.ReorderCandidate, int64, error) {
	base := buildReorderQuery(filter, now)

	count := base.wrap().write(" SELECT COUNT(*) FROM candidates")
	page := base.wrap().
		write(" SELECT * FROM candidates ORDER BY days_remaining ASC NULLS LAST, stock_on_hand ASC, id ASC").
		write(" LIMIT ? OFFSET ?", filter.Limit, filter.Offset)

	var (
		total int64
		rows  []reorderRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Raw(count.SQL(), count.Args()...).Scan(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Raw(page.SQL(), page.Args()...).Scan(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list reorder candidates: %w", err)
	}

	candidates := make([]intelligence.ReorderCandidate, len(rows))
	for i, row := range rows {
		candidates[i] = intelligence.ReorderCandidate{
			Product:        row.ProductRow.toDomain(),
			SoldLast30Days: row.SoldLast30Days,
		}
	}
	return candidates, total, nil
}

func buildReorderQuery(filter intelligence.ReorderFilter, now time.Time) *sqlQuery {
	since := now.AddDate(0, 0, -intelligence.VelocityWindowDays)

	scope := &predicateSet{}
	scope.add("p.track_stock = ?", true).
		add("p.stock_on_hand <= ?", filter.Threshold)
	addBrandPredicates(scope, "p.brand", nil, filter.Policy)

	q := &sqlQuery{}
	q.write(`WITH recent_sales AS (
	SELECT oli.product_id, SUM(oli.quantity)::bigint AS sold_last_30d
	FROM order_line_items oli
	JOIN orders o ON o.id = oli.order_id
	WHERE o.order_date >= ? AND LOWER(COALESCE(o.status, '')) NOT IN ?
	GROUP BY oli.product_id
),
candidates AS (
	SELECT p.id, p.sku, p.name, p.brand, p.stock_on_hand, p.wholesale_rate, p.image_url,
		wp.id AS website_product_id, wp.retail_price, wp.is_active AS website_active, wp.badge,
		COALESCE(rs.sold_last_30d, 0) AS sold_last_30d,
		CASE WHEN COALESCE(rs.sold_last_30d, 0) > 0
			THEN GREATEST(p.stock_on_hand, 0) * ?::numeric / rs.sold_last_30d
		END AS days_remaining
	FROM products p
	JOIN website_products wp ON wp.product_id = p.id AND wp.is_active = ?
	LEFT JOIN recent_sales rs ON rs.product_id = p.id`,
		since, excludedOrderStatuses, intelligence.VelocityWindowDays, true)
	q.writeWhere(scope)
	q.write("\n)")
	return q
}
