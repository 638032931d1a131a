package persistence

import (
	"strings"

	"github.com/splitfin/backend/internal/domain/intelligence"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks sortField against a whitelist.
// Returns defaultField if the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// PopularitySortFields lists the popularity columns a caller may order by
var PopularitySortFields = map[string]bool{
	string(intelligence.SortUniqueCustomers): true,
	string(intelligence.SortTotalOrders):     true,
	string(intelligence.SortTotalQuantity):   true,
	string(intelligence.SortTotalRevenue):    true,
	string(intelligence.SortTrend):           true,
	string(intelligence.SortStockOnHand):     true,
	string(intelligence.SortName):            true,
}
