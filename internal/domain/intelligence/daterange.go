package intelligence

import (
	"strings"
	"time"
)

// DateRange is a named lookback window
type DateRange string

const (
	Range7Days   DateRange = "7d"
	Range30Days  DateRange = "30d"
	Range90Days  DateRange = "90d"
	Range6Months DateRange = "6m"
	Range12Month DateRange = "12m"
	RangeAll     DateRange = "all"

	DefaultDateRange = Range90Days
)

// ParseDateRange normalizes a range token; unknown tokens fall back to 90d
func ParseDateRange(raw string) DateRange {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(raw))); r {
	case Range7Days, Range30Days, Range90Days, Range6Months, Range12Month, RangeAll:
		return r
	default:
		return DefaultDateRange
	}
}

// Since returns the inclusive lower bound of the window ending at now,
// or nil for the unbounded "all" range.
func (r DateRange) Since(now time.Time) *time.Time {
	var t time.Time
	switch r {
	case Range7Days:
		t = now.AddDate(0, 0, -7)
	case Range30Days:
		t = now.AddDate(0, 0, -30)
	case Range6Months:
		t = now.AddDate(0, -6, 0)
	case Range12Month:
		t = now.AddDate(0, -12, 0)
	case RangeAll:
		return nil
	default:
		t = now.AddDate(0, 0, -90)
	}
	return &t
}
