package calendar

import (
	"sort"
	"strings"

	"ForexSentry/internal/model"
)

// BaselineConfig tunes the macro-stance heuristics. Defaults mirror the
// production thresholds; tests inject synthetic values.
type BaselineConfig struct {
	RiskKeywords    []string // event-name fragments that mark rate/central-bank risk
	RiskEventMin    int      // keyword events needed for a Risk-off call
	RiskCurrencyMin int      // distinct currencies those events must span
	StanceLead      int      // event-count lead that makes a currency dominant
	TopCurrencies   int      // currencies summarized in the notes
	EventsPerNote   int      // event names listed per currency
	NoteBudget      int      // character cap for the notes field
}

// DefaultBaselineConfig returns the production thresholds.
func DefaultBaselineConfig() BaselineConfig {
	return BaselineConfig{
		RiskKeywords:    []string{"Speaks", "Press Conference", "Cash Rate", "Rate Decision"},
		RiskEventMin:    3,
		RiskCurrencyMin: 2,
		StanceLead:      2,
		TopCurrencies:   3,
		EventsPerNote:   2,
		NoteBudget:      240,
	}
}

// noteSeparator joins per-currency note entries. Clipping always lands on
// this boundary so the notes never end mid-word.
const noteSeparator = "; "

// BaselineClassifier derives the once-per-run macro stance from normalized
// events. Pure: no network access, no market-price input. The dxy/us10y/
// oil/xau gauges always read "NA".
type BaselineClassifier struct {
	cfg BaselineConfig
}

// NewBaselineClassifier creates a classifier with the given thresholds.
func NewBaselineClassifier(cfg BaselineConfig) *BaselineClassifier {
	return &BaselineClassifier{cfg: cfg}
}

// Classify computes the macro baseline for one run.
func (c *BaselineClassifier) Classify(events []model.EconomicEvent) model.MacroBaseline {
	counts := make(map[string]int)
	names := make(map[string][]string)
	for _, ev := range events {
		counts[ev.Currency]++
		names[ev.Currency] = append(names[ev.Currency], ev.Event)
	}

	return model.MacroBaseline{
		USDStance:  c.usdStance(counts),
		RiskRegime: c.riskRegime(events),
		DXY:        "NA",
		US10Y:      "NA",
		Oil:        "NA",
		XAU:        "NA",
		Notes:      c.notes(counts, names),
	}
}

// usdStance compares USD's event count against the busiest other currency:
// a lead of StanceLead either way breaks the "Mixed" default.
func (c *BaselineClassifier) usdStance(counts map[string]int) string {
	usd := counts["USD"]
	bestOther := 0
	for cur, n := range counts {
		if cur != "USD" && n > bestOther {
			bestOther = n
		}
	}
	switch {
	case usd-bestOther >= c.cfg.StanceLead:
		return "Strong"
	case bestOther-usd >= c.cfg.StanceLead:
		return "Weak"
	default:
		return "Mixed"
	}
}

// riskRegime flags Risk-off when enough keyword events hit enough distinct
// currencies in one session.
func (c *BaselineClassifier) riskRegime(events []model.EconomicEvent) string {
	hits := 0
	currencies := make(map[string]bool)
	for _, ev := range events {
		for _, kw := range c.cfg.RiskKeywords {
			if strings.Contains(ev.Event, kw) {
				hits++
				currencies[ev.Currency] = true
				break
			}
		}
	}
	if hits >= c.cfg.RiskEventMin && len(currencies) >= c.cfg.RiskCurrencyMin {
		return "Risk-off"
	}
	return "Mixed"
}

// notes summarizes the busiest currencies: top TopCurrencies by event
// count (ties broken by code), up to EventsPerNote names each, clipped to
// the budget at a separator boundary.
func (c *BaselineClassifier) notes(counts map[string]int, names map[string][]string) string {
	ranked := make([]string, 0, len(counts))
	for cur := range counts {
		ranked = append(ranked, cur)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > c.cfg.TopCurrencies {
		ranked = ranked[:c.cfg.TopCurrencies]
	}

	entries := make([]string, 0, len(ranked))
	for _, cur := range ranked {
		evs := names[cur]
		if len(evs) > c.cfg.EventsPerNote {
			evs = evs[:c.cfg.EventsPerNote]
		}
		entries = append(entries, cur+": "+strings.Join(evs, ", "))
	}
	return clipNotes(strings.Join(entries, noteSeparator), c.cfg.NoteBudget)
}

// clipNotes trims to budget at the last full separator, falling back to
// the last space so a clip never splits a word.
func clipNotes(s string, budget int) string {
	if budget <= 0 || len(s) <= budget {
		return s
	}
	head := s[:budget]
	if i := strings.LastIndex(head, noteSeparator); i > 0 {
		return head[:i]
	}
	if i := strings.LastIndex(head, " "); i > 0 {
		return head[:i]
	}
	return head
}
