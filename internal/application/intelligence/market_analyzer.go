package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/logger"
	"github.com/splitfin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Completer returns a JSON object for a system and user prompt
type Completer interface {
	Configured() bool
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Fallback notes
const (
	NoteNotConfigured = "Market analysis unavailable: no completion provider is configured. Showing raw quotes only."
	NoteFailed        = "Market analysis failed. Showing raw quotes only."
	NoteMissing       = "No market analysis was returned for this product. Showing raw quotes only."
)

const (
	maxPromptSnippets = 8
	maxSnippetChars   = 300
	maxPromptQuotes   = 10
)

const analysisSystemPrompt = "You are a pricing analyst for a UK homeware wholesaler. " +
	"Compare our retail prices with competitor prices found online. Reply with a single JSON object only."

// MarketAnalyzer turns search evidence into a market position verdict per
// product using one completion call for the whole batch. It never fails:
// any problem degrades to FallbackAnalysis.
type MarketAnalyzer struct {
	completer Completer
	metrics   *telemetry.PriceMetrics
	logger    *zap.Logger
}

// NewMarketAnalyzer creates a MarketAnalyzer. A nil completer always falls back.
func NewMarketAnalyzer(completer Completer, metrics *telemetry.PriceMetrics, log *zap.Logger) *MarketAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MarketAnalyzer{completer: completer, metrics: metrics, logger: log}
}

// Analyze sets Analysis on every result. Verdicts are matched to results by the
// product id echoed in the completion output.
func (a *MarketAnalyzer) Analyze(ctx context.Context, results []intelligence.PriceCheckResult, evidence map[int64]intelligence.SearchEvidence) []intelligence.PriceCheckResult {
	if len(results) == 0 {
		return results
	}
	log := a.log(ctx)

	if a.completer == nil || !a.completer.Configured() {
		a.metrics.RecordSynthesis(ctx, telemetry.SynthesisSkipped)
		return withFallback(results, NoteNotConfigured)
	}

	ctx, span := telemetry.StartSpan(ctx, "intelligence.market_analysis")
	content, err := a.completer.CompleteJSON(ctx, analysisSystemPrompt, buildAnalysisPrompt(results, evidence))
	var verdicts map[int64]intelligence.MarketAnalysis
	if err == nil {
		verdicts, err = parseVerdicts(content)
	}
	telemetry.EndSpan(span, err)

	if err != nil {
		a.metrics.RecordSynthesis(ctx, telemetry.SynthesisFallback)
		log.Warn("market analysis fell back",
			zap.String("reason", err.Error()),
			zap.Int("products", len(results)),
		)
		return withFallback(results, NoteFailed)
	}

	a.metrics.RecordSynthesis(ctx, telemetry.SynthesisOK)
	missing := 0
	for i := range results {
		verdict, ok := verdicts[results[i].ProductID]
		if !ok {
			missing++
			verdict = intelligence.FallbackAnalysis(NoteMissing)
		}
		results[i].Analysis = &verdict
	}
	if missing > 0 {
		log.Warn("market analysis omitted products",
			zap.String("reason", "missing product_id in completion output"),
			zap.Int("missing", missing),
		)
	}
	return results
}

func (a *MarketAnalyzer) log(ctx context.Context) *zap.Logger {
	return logger.LOr(ctx, a.logger)
}

func withFallback(results []intelligence.PriceCheckResult, note string) []intelligence.PriceCheckResult {
	for i := range results {
		fb := intelligence.FallbackAnalysis(note)
		results[i].Analysis = &fb
	}
	return results
}

func buildAnalysisPrompt(results []intelligence.PriceCheckResult, evidence map[int64]intelligence.SearchEvidence) string {
	var b strings.Builder
	b.WriteString("For each product below, estimate the current UK market price range from the evidence and ")
	b.WriteString("say whether our retail price is below, competitive with, or above the market.\n\n")

	for _, r := range results {
		fmt.Fprintf(&b, "Product %d: %s\n", r.ProductID, r.Name)
		if r.Brand != "" {
			fmt.Fprintf(&b, "Brand: %s\n", r.Brand)
		}
		if r.OurPrice != nil {
			fmt.Fprintf(&b, "Our retail price: £%s\n", r.OurPrice.StringFixed(2))
		} else {
			b.WriteString("Our retail price: not listed\n")
		}
		fmt.Fprintf(&b, "Wholesale price: £%s\n", r.WholesalePrice.StringFixed(2))

		if len(r.Quotes) > 0 {
			b.WriteString("Quotes found:\n")
			for i, q := range r.Quotes {
				if i == maxPromptQuotes {
					break
				}
				fmt.Fprintf(&b, "- %s: £%s\n", q.Retailer, q.Price.StringFixed(2))
			}
		}
		snippets := evidence[r.ProductID].Snippets
		if len(snippets) > 0 {
			b.WriteString("Search snippets:\n")
			for i, s := range snippets {
				if i == maxPromptSnippets {
					break
				}
				fmt.Fprintf(&b, "- %s\n", truncate(s, maxSnippetChars))
			}
		}
		if len(r.Quotes) == 0 && len(snippets) == 0 {
			b.WriteString("No search results were found.\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(`Respond with JSON of the form {"results":[{"product_id":<id>,"market_avg":<number|null>,`)
	b.WriteString(`"market_low":<number|null>,"market_high":<number|null>,"our_position":"below|competitive|above|unknown",`)
	b.WriteString(`"confidence":"high|medium|low","sources":["<retailer>"],"notes":"<one sentence>"}]}. `)
	b.WriteString("Include every product_id exactly once. Use null where the evidence is insufficient.")
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// parseVerdicts decodes the completion output. Each field of each entry is
// decoded on its own so a wrong-typed field only loses that field. Entries
// without a usable product_id are dropped; the first entry per id wins.
func parseVerdicts(content string) (map[int64]intelligence.MarketAnalysis, error) {
	var envelope struct {
		Results []map[string]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("malformed completion output: %w", err)
	}

	verdicts := make(map[int64]intelligence.MarketAnalysis, len(envelope.Results))
	for _, entry := range envelope.Results {
		id, ok := decodeID(entry["product_id"])
		if !ok {
			continue
		}
		if _, dup := verdicts[id]; dup {
			continue
		}
		verdicts[id] = intelligence.MarketAnalysis{
			MarketAvg:   decodePrice(entry["market_avg"]),
			MarketLow:   decodePrice(entry["market_low"]),
			MarketHigh:  decodePrice(entry["market_high"]),
			OurPosition: intelligence.ParseMarketPosition(decodeString(entry["our_position"])),
			Confidence:  intelligence.ParseConfidence(decodeString(entry["confidence"])),
			Sources:     decodeStrings(entry["sources"]),
			Notes:       decodeString(entry["notes"]),
		}
	}
	return verdicts, nil
}

func decodeID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, n > 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return n, err == nil && n > 0
	}
	return 0, false
}

// decodePrice accepts a JSON number or numeric string; anything else,
// including zero and negatives, is absent
func decodePrice(raw json.RawMessage) *decimal.Decimal {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		d := intelligence.ParsePrice(s)
		if !d.IsPositive() {
			return nil
		}
		d = d.Round(2)
		return &d
	}
	var f json.Number
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	d, err := decimal.NewFromString(f.String())
	if err != nil || !d.IsPositive() {
		return nil
	}
	d = d.Round(2)
	return &d
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func decodeStrings(raw json.RawMessage) []string {
	out := []string{}
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, item := range items {
		if s := decodeString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
