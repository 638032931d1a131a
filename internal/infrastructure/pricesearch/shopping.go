package pricesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/config"
	"golang.org/x/time/rate"
)

// ShoppingProvider queries a structured shopping search API (SerpAPI's
// google_shopping engine) and maps each priced item to a quote
type ShoppingProvider struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	country     string
	rateLimiter *rate.Limiter
}

// NewShoppingProvider creates the shopping tier
func NewShoppingProvider(cfg config.ProviderConfig, country string) *ShoppingProvider {
	return &ShoppingProvider{
		httpClient:  newHTTPClient(),
		endpoint:    cfg.BaseURL,
		apiKey:      cfg.APIKey,
		country:     country,
		rateLimiter: newLimiter(cfg.RateLimit, cfg.Burst),
	}
}

// Tier implements Provider
func (p *ShoppingProvider) Tier() string { return TierShopping }

// Configured implements Provider
func (p *ShoppingProvider) Configured() bool { return p.apiKey != "" && p.endpoint != "" }

type shoppingResponse struct {
	Error           string         `json:"error"`
	ShoppingResults []shoppingItem `json:"shopping_results"`
}

type shoppingItem struct {
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	Price          string   `json:"price"`
	ExtractedPrice *float64 `json:"extracted_price"`
	Link           string   `json:"link"`
	ProductLink    string   `json:"product_link"`
}

// Search implements Provider
func (p *ShoppingProvider) Search(ctx context.Context, q Query) (intelligence.SearchEvidence, error) {
	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", q.Terms())
	params.Set("gl", p.country)
	params.Set("hl", "en")
	params.Set("api_key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := do(p.httpClient, p.rateLimiter, req)
	if err != nil {
		return intelligence.SearchEvidence{}, err
	}

	var response shoppingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return intelligence.SearchEvidence{}, fmt.Errorf("failed to parse shopping response: %w", err)
	}
	if response.Error != "" {
		return intelligence.SearchEvidence{}, fmt.Errorf("%w: %s", ErrUpstream, response.Error)
	}

	ev := emptyEvidence(TierShopping)
	for _, item := range response.ShoppingResults {
		price := intelligence.ParsePrice(item.Price)
		if !price.IsPositive() && item.ExtractedPrice != nil {
			price = decimal.NewFromFloat(*item.ExtractedPrice)
		}
		if !price.IsPositive() {
			continue
		}

		link := firstNonEmpty(item.Link, item.ProductLink)
		retailer := strings.TrimSpace(item.Source)
		if retailer == "" {
			retailer = retailerFor(link, "")
		}
		if retailer == "" {
			continue
		}

		ev.Quotes = append(ev.Quotes, intelligence.PriceQuote{
			Retailer:  retailer,
			Price:     price.Round(2),
			SourceURL: link,
		})
		ev.Snippets = append(ev.Snippets, fmt.Sprintf("%s: £%s | %s", retailer, price.StringFixed(2), item.Title))
	}
	return ev, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
