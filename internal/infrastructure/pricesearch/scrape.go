package pricesearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/config"
	"golang.org/x/time/rate"
)

const scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ScrapeProvider fetches the DuckDuckGo HTML results page and extracts prices
// from the first few result titles and snippets. It needs no credentials.
type ScrapeProvider struct {
	httpClient  *http.Client
	endpoint    string
	limit       int
	enabled     bool
	rateLimiter *rate.Limiter
}

// NewScrapeProvider creates the scrape tier
func NewScrapeProvider(cfg config.ProviderConfig, limit int) *ScrapeProvider {
	return &ScrapeProvider{
		httpClient:  newHTTPClient(),
		endpoint:    cfg.BaseURL,
		limit:       limit,
		enabled:     cfg.Enabled,
		rateLimiter: newLimiter(cfg.RateLimit, cfg.Burst),
	}
}

// Tier implements Provider
func (p *ScrapeProvider) Tier() string { return TierScrape }

// Configured implements Provider
func (p *ScrapeProvider) Configured() bool { return p.enabled && p.endpoint != "" }

// scrapedResult is one organic result on the HTML results page
type scrapedResult struct {
	Title   string
	URL     string
	Snippet string
}

// Search implements Provider
func (p *ScrapeProvider) Search(ctx context.Context, q Query) (intelligence.SearchEvidence, error) {
	params := url.Values{}
	params.Set("q", q.PriceIntent())
	params.Set("kl", "uk-en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	body, err := do(p.httpClient, p.rateLimiter, req)
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}

	results, err := parseResults(body, p.limit)
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}

	ev := emptyEvidence(TierScrape)
	for _, r := range results {
		text := r.Title + " " + r.Snippet
		retailer := retailerFor(r.URL, r.Title)
		for _, amount := range intelligence.ExtractCurrencyAmounts(text) {
			ev.Quotes = append(ev.Quotes, intelligence.PriceQuote{Retailer: retailer, Price: amount, SourceURL: r.URL})
		}
		ev.Snippets = append(ev.Snippets, fmt.Sprintf("%s: %s", retailer, text))
	}
	return ev, nil
}

// parseResults pulls up to limit (title, url, snippet) triples from the page
func parseResults(body []byte, limit int) ([]scrapedResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var results []scrapedResult
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(results) >= limit {
			return false
		}
		link := s.Find(".result__a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		results = append(results, scrapedResult{
			Title:   title,
			URL:     resolveRedirect(link.AttrOr("href", "")),
			Snippet: strings.Join(strings.Fields(s.Find(".result__snippet").Text()), " "),
		})
		return true
	})
	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<target> redirect links
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
