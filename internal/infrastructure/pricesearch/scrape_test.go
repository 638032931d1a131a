package pricesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="result results_links">
  <h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.johnlewis.com%2Flamp&amp;rut=abc">Elstead Dragonfly Lamp - John Lewis</a></h2>
  <a class="result__snippet">Buy now for £145.00 with free   click and collect.</a>
</div>
<div class="result results_links">
  <h2 class="result__title"><a class="result__a" href="https://www.dunelm.com/lamp">Dragonfly lamp | Dunelm</a></h2>
  <a class="result__snippet">Only £99 this week</a>
</div>
<div class="result results_links">
  <h2 class="result__title"><a class="result__a" href="https://www.example.org/third">Third result £10.00</a></h2>
  <a class="result__snippet">beyond the limit</a>
</div>
</body></html>`

func TestScrapeProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tiffany Dragonfly Lamp Elstead price buy UK", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	p := NewScrapeProvider(providerConfig(server.URL), 2)
	ev, err := p.Search(context.Background(), lamp)
	require.NoError(t, err)

	assert.Equal(t, TierScrape, ev.Tier)
	require.Len(t, ev.Quotes, 2)
	assert.Equal(t, "johnlewis.com", ev.Quotes[0].Retailer)
	assert.Equal(t, "https://www.johnlewis.com/lamp", ev.Quotes[0].SourceURL)
	assert.Equal(t, []string{"145.00", "99.00"}, prices(ev.Quotes))
}

func TestParseResults(t *testing.T) {
	results, err := parseResults([]byte(resultsPage), 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Buy now for £145.00 with free click and collect.", results[0].Snippet)

	results, err = parseResults([]byte(`<html><body><p>no results</p></body></html>`), 8)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScrapeProvider_Configured(t *testing.T) {
	cfg := providerConfig("https://html.duckduckgo.com/html/")
	cfg.APIKey = ""
	assert.True(t, NewScrapeProvider(cfg, 8).Configured())

	cfg.Enabled = false
	assert.False(t, NewScrapeProvider(cfg, 8).Configured())
}
