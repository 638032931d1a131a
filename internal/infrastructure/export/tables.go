package export

import (
	"github.com/splitfin/backend/internal/domain/intelligence"
)

// PopularityTable lays out popularity records one per row
func PopularityTable(records []intelligence.PopularityRecord) Table {
	t := Table{
		Sheet: "Popularity",
		Headers: []string{
			"Product ID", "SKU", "Name", "Brand", "Stock On Hand",
			"Unique Customers", "Total Orders", "Total Quantity", "Total Revenue",
			"Avg Qty / Order", "Top Customer Share %", "Top Customer", "Skewed",
			"Trend", "Sold Last 30d", "Sold Previous 30d", "Website Live", "Retail Price",
		},
		Widths: []float64{10, 14, 36, 18, 12, 14, 12, 12, 14, 12, 14, 28, 8, 10, 12, 14, 10, 12},
		Rows:   make([][]any, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []any{
			r.ID, r.SKU, r.Name, r.Brand, r.StockOnHand,
			r.UniqueCustomers, r.TotalOrders, r.TotalQuantity, r.TotalRevenue,
			r.AvgQuantityPerOrder, r.MaxCustomerShare, r.TopCustomerName, r.IsSkewed,
			string(r.Trend), r.SoldLast30Days, r.SoldPrevious30Days, websiteLive(r.Product), r.RetailPrice(),
		})
	}
	return t
}

// ReorderTable lays out reorder alerts one per row
func ReorderTable(alerts []intelligence.ReorderAlert) Table {
	t := Table{
		Sheet: "Reorder Alerts",
		Headers: []string{
			"Product ID", "SKU", "Name", "Brand", "Stock On Hand",
			"Sold Last 30d", "Daily Velocity", "Days Remaining", "Priority", "Wholesale Rate",
		},
		Widths: []float64{10, 14, 36, 18, 12, 12, 12, 14, 10, 12},
		Rows:   make([][]any, 0, len(alerts)),
	}
	for _, a := range alerts {
		t.Rows = append(t.Rows, []any{
			a.ID, a.SKU, a.Name, a.Brand, a.StockOnHand,
			a.SoldLast30Days, a.DailyVelocity, a.DaysRemaining, string(a.Priority), a.WholesaleRate,
		})
	}
	return t
}

func websiteLive(p intelligence.Product) bool {
	return p.Website != nil && p.Website.IsActive
}
