// Package pricesearch discovers competitor prices through an ordered chain of
// external search providers.
package pricesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Tier names, in chain order
const (
	TierShopping  = "shopping"
	TierWebSearch = "web_search"
	TierScrape    = "scrape"
)

// maxResponseBytes bounds how much of a provider response is read
const maxResponseBytes = 2 << 20

// Query identifies the product being priced
type Query struct {
	Name  string
	Brand string
}

// Terms is the plain "<name> <brand>" query
func (q Query) Terms() string {
	return strings.Join(strings.Fields(q.Name+" "+q.Brand), " ")
}

// PriceIntent is the keyword query used by the web search and scrape tiers
func (q Query) PriceIntent() string {
	return q.Terms() + " price buy UK"
}

// Provider is one tier of the price search chain
type Provider interface {
	// Tier names the tier for logs and metrics
	Tier() string

	// Configured reports whether the provider can be called at all
	Configured() bool

	// Search returns the evidence found for q. An empty result is not an error.
	Search(ctx context.Context, q Query) (intelligence.SearchEvidence, error)
}

// ErrUpstream marks a non-2xx provider response
var ErrUpstream = errors.New("upstream provider error")

// newHTTPClient returns a client whose transport is traced with otelhttp.
// Deadlines come from the per-tier context rather than the client.
func newHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

// newLimiter builds a token bucket; a non-positive rate disables limiting
func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// do waits for the limiter, sends req and returns the body of a 2xx response
func do(client *http.Client, limiter *rate.Limiter, req *http.Request) ([]byte, error) {
	if err := limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return body, nil
}

// emptyEvidence is the non-nil empty result for a tier
func emptyEvidence(tier string) intelligence.SearchEvidence {
	return intelligence.SearchEvidence{Tier: tier, Quotes: []intelligence.PriceQuote{}}
}

// retailerFor names a retailer by its domain, falling back to name
func retailerFor(rawURL, name string) string {
	if domain, ok := intelligence.ExtractDomain(rawURL); ok {
		return domain
	}
	return strings.TrimSpace(name)
}
