package intelligence

import (
	"context"
	"strings"
	"testing"

	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func analysisInputs() ([]intelligence.PriceCheckResult, map[int64]intelligence.SearchEvidence) {
	price := gbp("29.99")
	results := []intelligence.PriceCheckResult{
		{ProductID: 1, Name: "Porcelain Lamp", Brand: "Rader", OurPrice: &price, WholesalePrice: gbp("12.50"),
			Quotes: []intelligence.PriceQuote{{Retailer: "johnlewis.com", Price: gbp("32")}}},
		{ProductID: 2, Name: "Birdsong Box", Brand: "Relaxound", WholesalePrice: gbp("40")},
	}
	evidence := map[int64]intelligence.SearchEvidence{
		1: {Snippets: []string{"John Lewis: £32.00 | Rader Porcelain Lamp"}},
	}
	return results, evidence
}

func TestMarketAnalyzer_MapsByProductID(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("Configured").Return(true)
	completer.On("CompleteJSON", mock.Anything, analysisSystemPrompt, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Product 1: Porcelain Lamp") &&
			strings.Contains(p, "Our retail price: £29.99") &&
			strings.Contains(p, "Product 2: Birdsong Box") &&
			strings.Contains(p, "Our retail price: not listed") &&
			strings.Contains(p, "John Lewis: £32.00")
	})).Return(`{"results":[
		{"product_id":2,"market_avg":"£55.00","our_position":"sideways","confidence":"medium","sources":["amazon.co.uk",7],"notes":"Few listings"},
		{"product_id":"1","market_avg":31.5,"market_low":28,"market_high":"n/a","our_position":"competitive","confidence":"high","sources":"johnlewis.com","notes":42},
		{"product_id":1,"market_avg":99}
	]}`, nil)

	results, evidence := analysisInputs()
	out := NewMarketAnalyzer(completer, nil, nil).Analyze(context.Background(), results, evidence)
	require.Len(t, out, 2)

	lamp := out[0].Analysis
	require.NotNil(t, lamp)
	require.NotNil(t, lamp.MarketAvg)
	assert.Equal(t, "31.5", lamp.MarketAvg.String())
	require.NotNil(t, lamp.MarketLow)
	assert.Equal(t, "28", lamp.MarketLow.String())
	assert.Nil(t, lamp.MarketHigh)
	assert.Equal(t, intelligence.PositionCompetitive, lamp.OurPosition)
	assert.Equal(t, intelligence.ConfidenceHigh, lamp.Confidence)
	assert.Equal(t, []string{}, lamp.Sources)
	assert.Equal(t, "", lamp.Notes)

	box := out[1].Analysis
	require.NotNil(t, box)
	require.NotNil(t, box.MarketAvg)
	assert.Equal(t, "55", box.MarketAvg.String())
	assert.Equal(t, intelligence.PositionUnknown, box.OurPosition)
	assert.Equal(t, intelligence.ConfidenceMedium, box.Confidence)
	assert.Equal(t, []string{"amazon.co.uk"}, box.Sources)
	assert.Equal(t, "Few listings", box.Notes)
}

func TestMarketAnalyzer_MissingIDFallsBack(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("Configured").Return(true)
	completer.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"results":[{"product_id":1,"our_position":"below","confidence":"low"},{"product_id":77}]}`, nil)

	core, logs := observer.New(zap.WarnLevel)
	results, evidence := analysisInputs()
	out := NewMarketAnalyzer(completer, nil, zap.New(core)).Analyze(context.Background(), results, evidence)

	assert.Equal(t, intelligence.PositionBelow, out[0].Analysis.OurPosition)
	assert.Equal(t, intelligence.FallbackAnalysis(NoteMissing), *out[1].Analysis)
	assert.Equal(t, 1, logs.FilterMessage("market analysis omitted products").Len())
}

func TestMarketAnalyzer_FallbackPaths(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*MockCompleter)
		note      string
	}{
		{
			name: "not configured",
			configure: func(m *MockCompleter) {
				m.On("Configured").Return(false)
			},
			note: NoteNotConfigured,
		},
		{
			name: "completion error",
			configure: func(m *MockCompleter) {
				m.On("Configured").Return(true)
				m.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything).Return("", context.DeadlineExceeded)
			},
			note: NoteFailed,
		},
		{
			name: "non-json output",
			configure: func(m *MockCompleter) {
				m.On("Configured").Return(true)
				m.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything).Return("not json at all", nil)
			},
			note: NoteFailed,
		},
		{
			name: "results of wrong type",
			configure: func(m *MockCompleter) {
				m.On("Configured").Return(true)
				m.On("CompleteJSON", mock.Anything, mock.Anything, mock.Anything).Return(`{"results":"none"}`, nil)
			},
			note: NoteFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			tt.configure(completer)

			results, evidence := analysisInputs()
			out := NewMarketAnalyzer(completer, nil, nil).Analyze(context.Background(), results, evidence)
			require.Len(t, out, 2)
			for _, r := range out {
				require.NotNil(t, r.Analysis)
				assert.Nil(t, r.Analysis.MarketAvg)
				assert.Nil(t, r.Analysis.MarketLow)
				assert.Nil(t, r.Analysis.MarketHigh)
				assert.Equal(t, intelligence.PositionUnknown, r.Analysis.OurPosition)
				assert.Equal(t, intelligence.ConfidenceLow, r.Analysis.Confidence)
				assert.Equal(t, []string{}, r.Analysis.Sources)
				assert.Equal(t, tt.note, r.Analysis.Notes)
			}
		})
	}
}

func TestMarketAnalyzer_NilCompleter(t *testing.T) {
	results, evidence := analysisInputs()
	out := NewMarketAnalyzer(nil, nil, nil).Analyze(context.Background(), results, evidence)
	assert.Equal(t, NoteNotConfigured, out[0].Analysis.Notes)
}

func TestMarketAnalyzer_EmptyBatch(t *testing.T) {
	completer := new(MockCompleter)
	out := NewMarketAnalyzer(completer, nil, nil).Analyze(context.Background(), nil, nil)
	assert.Empty(t, out)
	completer.AssertNotCalled(t, "Configured")
}

func TestDecodeID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{`12`, 12, true},
		{`"12"`, 12, true},
		{`" 5 "`, 5, true},
		{`0`, 0, false},
		{`-3`, -3, false},
		{`1.5`, 0, false},
		{`"abc"`, 0, false},
		{`null`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := decodeID([]byte(tt.raw))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b", truncate("  a \n b ", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 3))
}
