package pricesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/config"
	"golang.org/x/time/rate"
)

// answerRetailer labels quotes lifted from the provider's synthesized answer
const answerRetailer = "Search summary"

// WebSearchProvider runs a price-intent keyword search (Tavily) and extracts
// currency amounts from each result's title and snippet, plus the answer box
type WebSearchProvider struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	maxResults  int
	rateLimiter *rate.Limiter
}

// NewWebSearchProvider creates the web search tier
func NewWebSearchProvider(cfg config.ProviderConfig, maxResults int) *WebSearchProvider {
	return &WebSearchProvider{
		httpClient:  newHTTPClient(),
		endpoint:    cfg.BaseURL,
		apiKey:      cfg.APIKey,
		maxResults:  maxResults,
		rateLimiter: newLimiter(cfg.RateLimit, cfg.Burst),
	}
}

// Tier implements Provider
func (p *WebSearchProvider) Tier() string { return TierWebSearch }

// Configured implements Provider
func (p *WebSearchProvider) Configured() bool { return p.apiKey != "" && p.endpoint != "" }

type webSearchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

type webSearchResponse struct {
	Answer  string            `json:"answer"`
	Results []webSearchResult `json:"results"`
}

type webSearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Search implements Provider
func (p *WebSearchProvider) Search(ctx context.Context, q Query) (intelligence.SearchEvidence, error) {
	payload, err := json.Marshal(webSearchRequest{
		APIKey:        p.apiKey,
		Query:         q.PriceIntent(),
		SearchDepth:   "basic",
		IncludeAnswer: true,
		MaxResults:    p.maxResults,
	})
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	body, err := do(p.httpClient, p.rateLimiter, req)
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}

	var response webSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return intelligence.SearchEvidence{}, fmt.Errorf("failed to parse web search response: %w", err)
	}

	ev := emptyEvidence(TierWebSearch)
	for _, r := range response.Results {
		text := r.Title + " " + r.Content
		amounts := intelligence.ExtractCurrencyAmounts(text)
		if len(amounts) == 0 {
			continue
		}
		retailer := retailerFor(r.URL, r.Title)
		for _, amount := range amounts {
			ev.Quotes = append(ev.Quotes, intelligence.PriceQuote{Retailer: retailer, Price: amount, SourceURL: r.URL})
		}
		ev.Snippets = append(ev.Snippets, fmt.Sprintf("%s: %s", retailer, text))
	}

	if response.Answer != "" {
		for _, amount := range intelligence.ExtractCurrencyAmounts(response.Answer) {
			ev.Quotes = append(ev.Quotes, intelligence.PriceQuote{Retailer: answerRetailer, Price: amount})
		}
		ev.Snippets = append(ev.Snippets, answerRetailer+": "+response.Answer)
	}
	return ev, nil
}
