package dto

import (
	"math"
	"strconv"
	"strings"
)

// IntRange bounds a coerced integer parameter
type IntRange struct {
	Default int
	Min     int
	Max     int // 0 means unbounded
}

// ParseIntOrDefault coerces a raw query value to an int:
//   - empty, non-numeric, NaN, Inf or out of int range yields the default
//   - fractional values are floored ("2.9" is 2, "-0.5" is -1)
//   - values below Min yield the default
//   - values above Max are clamped to Max
func ParseIntOrDefault(raw string, r IntRange) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.Default
	}

	var n int
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if i < math.MinInt || i > math.MaxInt {
			return r.Default
		}
		n = int(i)
	} else {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return r.Default
		}
		f = math.Floor(f)
		if f < math.MinInt || f >= math.MaxInt {
			return r.Default
		}
		n = int(f)
	}

	if n < r.Min {
		return r.Default
	}
	if r.Max > 0 && n > r.Max {
		return r.Max
	}
	return n
}

// ParseBool accepts 1, true, yes and on (case-insensitive); anything else is false
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
