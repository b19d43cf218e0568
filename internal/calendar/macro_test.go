package calendar

import (
	"strings"
	"testing"

	"ForexSentry/internal/model"
)

func eventsFor(spec map[string][]string) []model.EconomicEvent {
	var events []model.EconomicEvent
	for cur, names := range spec {
		for _, name := range names {
			events = append(events, model.EconomicEvent{Currency: cur, Event: name})
		}
	}
	return events
}

func repeat(name string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = name
	}
	return out
}

func TestClassify_USDStance(t *testing.T) {
	c := NewBaselineClassifier(DefaultBaselineConfig())
	tests := []struct {
		name string
		spec map[string][]string
		want string
	}{
		{"usd dominant", map[string][]string{"USD": repeat("CPI m/m", 5), "EUR": repeat("PMI", 1)}, "Strong"},
		{"usd quiet", map[string][]string{"EUR": repeat("PMI", 5), "USD": repeat("CPI m/m", 1)}, "Weak"},
		{"balanced", map[string][]string{"USD": repeat("CPI m/m", 3), "GBP": repeat("GDP q/q", 3)}, "Mixed"},
		{"lead below threshold", map[string][]string{"USD": repeat("CPI m/m", 3), "JPY": repeat("Tankan", 2)}, "Mixed"},
		{"no events", nil, "Mixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := c.Classify(eventsFor(tt.spec))
			if b.USDStance != tt.want {
				t.Errorf("usd stance: got %q, want %q", b.USDStance, tt.want)
			}
		})
	}
}

func TestClassify_RiskRegime(t *testing.T) {
	c := NewBaselineClassifier(DefaultBaselineConfig())
	tests := []struct {
		name string
		spec map[string][]string
		want string
	}{
		{
			"rate risk across currencies",
			map[string][]string{
				"USD": {"Fed Chair Powell Speaks", "FOMC Press Conference"},
				"AUD": {"Cash Rate"},
			},
			"Risk-off",
		},
		{
			"enough events, one currency",
			map[string][]string{"USD": {"Fed Chair Powell Speaks", "FOMC Press Conference", "FOMC Member Waller Speaks"}},
			"Mixed",
		},
		{
			"spread but too few",
			map[string][]string{"USD": {"Fed Chair Powell Speaks"}, "EUR": {"ECB President Lagarde Speaks"}},
			"Mixed",
		},
		{
			"no keyword events",
			map[string][]string{"USD": repeat("CPI m/m", 6), "EUR": repeat("PMI", 4)},
			"Mixed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := c.Classify(eventsFor(tt.spec))
			if b.RiskRegime != tt.want {
				t.Errorf("risk regime: got %q, want %q", b.RiskRegime, tt.want)
			}
		})
	}
}

func TestClassify_GaugesFixed(t *testing.T) {
	c := NewBaselineClassifier(DefaultBaselineConfig())
	b := c.Classify(eventsFor(map[string][]string{"USD": {"CPI m/m"}}))
	for name, got := range map[string]string{"dxy": b.DXY, "us10y": b.US10Y, "oil": b.Oil, "xau": b.XAU} {
		if got != "NA" {
			t.Errorf("%s: got %q, want NA", name, got)
		}
	}
}

func TestClassify_Notes(t *testing.T) {
	c := NewBaselineClassifier(DefaultBaselineConfig())
	events := []model.EconomicEvent{
		{Currency: "USD", Event: "CPI m/m"},
		{Currency: "USD", Event: "Core CPI m/m"},
		{Currency: "USD", Event: "Unemployment Claims"},
		{Currency: "EUR", Event: "German ZEW"},
		{Currency: "EUR", Event: "PMI"},
		{Currency: "GBP", Event: "GDP q/q"},
		{Currency: "JPY", Event: "Tankan"},
	}
	b := c.Classify(events)

	// Top 3 currencies by count, first 2 event names each, in rank order.
	want := "USD: CPI m/m, Core CPI m/m; EUR: German ZEW, PMI; GBP: GDP q/q"
	if b.Notes != want {
		t.Errorf("notes:\n got %q\nwant %q", b.Notes, want)
	}
}

func TestClassify_NotesTieBreak(t *testing.T) {
	c := NewBaselineClassifier(DefaultBaselineConfig())
	b := c.Classify(eventsFor(map[string][]string{
		"NZD": {"Official Cash Rate"},
		"AUD": {"Employment Change"},
		"CAD": {"BOC Rate Statement"},
		"CHF": {"SNB Chairman Speaks"},
	}))
	// Equal counts rank alphabetically; only the first three appear.
	want := "AUD: Employment Change; CAD: BOC Rate Statement; CHF: SNB Chairman Speaks"
	if b.Notes != want {
		t.Errorf("notes tie-break:\n got %q\nwant %q", b.Notes, want)
	}
}

func TestClassify_NotesClippedAtBoundary(t *testing.T) {
	cfg := DefaultBaselineConfig()
	cfg.NoteBudget = 40
	c := NewBaselineClassifier(cfg)
	b := c.Classify([]model.EconomicEvent{
		{Currency: "USD", Event: "CPI m/m"},
		{Currency: "USD", Event: "Core CPI m/m"},
		{Currency: "EUR", Event: "German Prelim CPI m/m"},
	})
	if len(b.Notes) > cfg.NoteBudget {
		t.Fatalf("notes over budget: %d > %d (%q)", len(b.Notes), cfg.NoteBudget, b.Notes)
	}
	if strings.HasSuffix(b.Notes, noteSeparator) {
		t.Errorf("clip left a dangling separator: %q", b.Notes)
	}
	if b.Notes != "USD: CPI m/m, Core CPI m/m" {
		t.Errorf("expected clip at the separator boundary, got %q", b.Notes)
	}
}
