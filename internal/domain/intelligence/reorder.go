package intelligence

import (
	"github.com/shopspring/decimal"
)

// Priority is the urgency tier of a reorder alert
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityWarning  Priority = "warning"
	PriorityMonitor  Priority = "monitor"
)

// Priority cut-offs in days of stock remaining (inclusive)
var (
	criticalDays = decimal.NewFromInt(7)
	warningDays  = decimal.NewFromInt(21)
)

// VelocityWindowDays is the trailing window used for sell-through velocity
const VelocityWindowDays = 30

// DefaultReorderThreshold is the stock level at or below which products are alerted
const DefaultReorderThreshold = 10

// PriorityFor maps days of stock remaining onto a priority tier. A nil
// value means no recent sales; that is only critical once stock is exhausted.
func PriorityFor(daysRemaining *decimal.Decimal, stockOnHand int64) Priority {
	if daysRemaining == nil {
		if stockOnHand <= 0 {
			return PriorityCritical
		}
		return PriorityMonitor
	}
	switch {
	case daysRemaining.LessThanOrEqual(criticalDays):
		return PriorityCritical
	case daysRemaining.LessThanOrEqual(warningDays):
		return PriorityWarning
	default:
		return PriorityMonitor
	}
}

// ReorderAlert is a low-stock product with its sell-through estimate
type ReorderAlert struct {
	Product
	SoldLast30Days int64            `json:"sold_last_30d"`
	DailyVelocity  decimal.Decimal  `json:"daily_velocity"`
	DaysRemaining  *decimal.Decimal `json:"days_remaining"`
	Priority       Priority         `json:"priority"`
}

// NewReorderAlert computes velocity, days remaining and priority once.
// Days remaining is rounded to one decimal before the priority is assigned
// so the displayed value and the tier always agree.
func NewReorderAlert(p Product, soldLast30Days int64) ReorderAlert {
	alert := ReorderAlert{
		Product:        p,
		SoldLast30Days: soldLast30Days,
		DailyVelocity:  decimal.Zero,
	}
	if soldLast30Days > 0 {
		window := decimal.NewFromInt(VelocityWindowDays)
		sold := decimal.NewFromInt(soldLast30Days)
		alert.DailyVelocity = sold.DivRound(window, 2)
		stock := decimal.NewFromInt(p.StockOnHand)
		if stock.IsNegative() {
			stock = decimal.Zero
		}
		days := stock.Mul(window).DivRound(sold, 1)
		alert.DaysRemaining = &days
	}
	alert.Priority = PriorityFor(alert.DaysRemaining, p.StockOnHand)
	return alert
}

// ReorderFilter selects reorder alerts
type ReorderFilter struct {
	Threshold int
	Policy    BrandPolicy
	Limit     int
	Offset    int
}
