package intelligence

// Trend labels demand movement between two consecutive 30 day windows
type Trend string

const (
	TrendNew    Trend = "new"
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TrendWindowDays is the length of each comparison window
const TrendWindowDays = 30

// Trend thresholds expressed as integer ratios (tenths) so the comparison is exact:
// up when recent/previous > 12/10, down when recent/previous < 8/10.
const (
	TrendUpTenths   = 12
	TrendDownTenths = 8
)

// ClassifyTrend labels demand from units sold in the last 30 days (recent)
// against the 30 days before that (previous). Rules apply in order.
func ClassifyTrend(recent, previous int64) Trend {
	switch {
	case previous == 0 && recent > 0:
		return TrendNew
	case previous > 0 && recent*10 > previous*TrendUpTenths:
		return TrendUp
	case previous > 0 && recent*10 < previous*TrendDownTenths:
		return TrendDown
	default:
		return TrendStable
	}
}

// TrendRank orders trends for sorting; higher is stronger demand
var TrendRank = map[Trend]int{
	TrendUp:     3,
	TrendNew:    2,
	TrendStable: 1,
	TrendDown:   0,
}
