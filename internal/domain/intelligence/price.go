package intelligence

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// PriceQuote is one retailer price observed for a product by a search tier
type PriceQuote struct {
	Retailer  string          `json:"retailer"`
	Price     decimal.Decimal `json:"price"`
	SourceURL string          `json:"source_url,omitempty"`
}

// Bounds for prices pulled out of free text; values outside the open
// interval are page furniture such as "£0" footers or reference numbers.
var (
	minExtractedPrice = decimal.RequireFromString("0.5")
	maxExtractedPrice = decimal.NewFromInt(100000)
)

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.,]`)
	currencyToken = regexp.MustCompile(`£\s?(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?`)
)

// ParsePrice reads a loosely formatted price such as "£1,234.56" or "GBP 12".
// Everything but digits, dots and commas is dropped, commas are treated as
// thousands separators, and unparseable input yields zero.
func ParsePrice(raw string) decimal.Decimal {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ExtractCurrencyAmounts returns the pound amounts found in text, in order of
// first occurrence, keeping only values strictly between 0.5 and 100000.
func ExtractCurrencyAmounts(text string) []decimal.Decimal {
	text = norm.NFKC.String(text)
	matches := currencyToken.FindAllStringSubmatch(text, -1)
	amounts := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		whole := strings.ReplaceAll(m[1], ",", "")
		if m[2] != "" {
			whole += "." + m[2]
		}
		d, err := decimal.NewFromString(whole)
		if err != nil {
			continue
		}
		if d.LessThanOrEqual(minExtractedPrice) || d.GreaterThanOrEqual(maxExtractedPrice) {
			continue
		}
		amounts = append(amounts, d)
	}
	return amounts
}

// ExtractDomain returns the lower-cased host of rawURL without a leading "www.".
// It reports false when rawURL is not an absolute URL with a host.
func ExtractDomain(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www."), true
}

// DedupeQuotes drops quotes repeating an earlier (retailer, price) pair and
// returns the rest sorted by ascending price. Ties keep first-seen order.
// Quotes with a non-positive price are discarded.
func DedupeQuotes(quotes []PriceQuote) []PriceQuote {
	out := make([]PriceQuote, 0, len(quotes))
	seen := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		if !q.Price.IsPositive() {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(q.Retailer)) + "|" + q.Price.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}
