package calendar

import (
	"regexp"
	"strings"

	"ForexSentry/internal/model"
)

// Vocabulary configures the row-repair heuristics. Injecting it keeps the
// site-specific whitelists out of the logic and testable against synthetic
// vocabularies.
type Vocabulary struct {
	Currencies    map[string]bool // uppercased ISO codes
	TimePattern   *regexp.Regexp  // time-of-day shape, e.g. 3:45pm
	TimeSentinels map[string]bool // lowercased non-clock time values
	DefaultTime   string
	MinEventLen   int
}

// DefaultVocabulary matches the currently-observed calendar layout.
func DefaultVocabulary() Vocabulary {
	currencies := make(map[string]bool)
	for _, c := range []string{"USD", "EUR", "GBP", "JPY", "AUD", "NZD", "CAD", "CHF", "CNY", "CNH", "SEK", "NOK"} {
		currencies[c] = true
	}
	return Vocabulary{
		Currencies:    currencies,
		TimePattern:   regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(am|pm)$`),
		TimeSentinels: map[string]bool{"tentative": true, "all day": true},
		DefaultTime:   "Tentative",
		MinEventLen:   3,
	}
}

func (v Vocabulary) isCurrency(s string) bool {
	return v.Currencies[strings.ToUpper(strings.TrimSpace(s))]
}

// Normalizer repairs column-misaligned scraped rows into the canonical
// seven-field event shape. Rows that cannot recover both a currency and an
// event name are dropped whole; the drop count is returned so callers can
// observe the loss. Normalization is idempotent.
type Normalizer struct {
	vocab Vocabulary
}

// NewNormalizer creates a Normalizer with the given vocabulary.
func NewNormalizer(vocab Vocabulary) *Normalizer {
	return &Normalizer{vocab: vocab}
}

// Normalize repairs every row it can and reports how many it dropped.
func (n *Normalizer) Normalize(rows []RawEventRow) ([]model.EconomicEvent, int) {
	events := make([]model.EconomicEvent, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		ev, ok := n.repair(row)
		if !ok {
			dropped++
			continue
		}
		events = append(events, ev)
	}
	return events, dropped
}

func (n *Normalizer) repair(row RawEventRow) (model.EconomicEvent, bool) {
	currency, ok := n.findCurrency(row)
	if !ok {
		return model.EconomicEvent{}, false
	}
	event, ok := n.findEvent(row)
	if !ok {
		return model.EconomicEvent{}, false
	}
	return model.EconomicEvent{
		Time:     n.findTime(row),
		Currency: currency,
		Impact:   n.cleanImpact(row.Impact),
		Event:    event,
		Actual:   strings.TrimSpace(row.Actual),
		Forecast: strings.TrimSpace(row.Forecast),
		Previous: strings.TrimSpace(row.Previous),
	}, true
}

// findCurrency scans the candidate columns in order for a whitelisted code.
func (n *Normalizer) findCurrency(row RawEventRow) (string, bool) {
	for _, cand := range []string{row.Currency, row.Impact, row.Event, row.Time} {
		if n.vocab.isCurrency(cand) {
			return strings.ToUpper(strings.TrimSpace(cand)), true
		}
	}
	return "", false
}

// findTime takes the first candidate that looks like a clock time or a
// known sentinel, defaulting when a shifted row lost the time entirely.
func (n *Normalizer) findTime(row RawEventRow) string {
	for _, cand := range []string{row.Time, row.Currency} {
		cand = strings.TrimSpace(cand)
		if n.vocab.TimePattern.MatchString(cand) {
			return cand
		}
		if n.vocab.TimeSentinels[strings.ToLower(cand)] {
			return titleCase(cand)
		}
	}
	return n.vocab.DefaultTime
}

// findEvent takes the first candidate long enough to be a name and not
// itself a currency code.
func (n *Normalizer) findEvent(row RawEventRow) (string, bool) {
	for _, cand := range []string{row.Event, row.Actual, row.Forecast, row.Previous} {
		cand = strings.TrimSpace(cand)
		if len(cand) >= n.vocab.MinEventLen && !n.vocab.isCurrency(cand) {
			return cand, true
		}
	}
	return "", false
}

// cleanImpact title-cases the impact cell; a currency code there means the
// row was shifted and the real impact is gone, so it clears to empty.
func (n *Normalizer) cleanImpact(impact string) string {
	impact = strings.TrimSpace(impact)
	if n.vocab.isCurrency(impact) {
		return ""
	}
	return titleCase(impact)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
