package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	fxcal "ForexSentry/internal/calendar"
	"ForexSentry/internal/model"
)

type failingSource struct{}

func (failingSource) Rows() ([]fxcal.RawEventRow, error) {
	return nil, errors.New("scrape blocked")
}

func newTestScheduler() *Scheduler {
	return NewScheduler(context.Background(), Deps{
		Rows: fxcal.StaticSource{
			{Time: "8:30am", Currency: "USD", Impact: "High", Event: "CPI m/m"},
			{Time: "9:00am", Currency: "XXX", Event: "Unknown"},
		},
		Normalizer: fxcal.NewNormalizer(fxcal.DefaultVocabulary()),
		Classifier: fxcal.NewBaselineClassifier(fxcal.DefaultBaselineConfig()),
	})
}

func TestCollectEvents(t *testing.T) {
	s := newTestScheduler()
	events, dropped := s.collectEvents()
	if len(events) != 1 || dropped != 1 {
		t.Errorf("got %d event(s), %d dropped", len(events), dropped)
	}

	// A failed scrape degrades to a newsless cycle, never an abort.
	s.Rows = failingSource{}
	events, dropped = s.collectEvents()
	if events != nil || dropped != 0 {
		t.Errorf("degraded scrape: got %v, %d dropped", events, dropped)
	}
}

func TestHandleCommand(t *testing.T) {
	s := newTestScheduler()
	s.lastBaseline = model.MacroBaseline{USDStance: "Strong", RiskRegime: "Mixed"}

	if got := s.HandleCommand("/macro"); !strings.Contains(got, "*Strong*") {
		t.Errorf("/macro reply: %q", got)
	}
	if got := s.HandleCommand("/status"); !strings.Contains(got, "No snapshots") {
		t.Errorf("/status before any cycle: %q", got)
	}
	if got := s.HandleCommand("/bogus"); !strings.Contains(got, "/run") {
		t.Errorf("help reply: %q", got)
	}
}

func TestTradingDayGate_Fallback(t *testing.T) {
	gate := NewTradingDayGate("no-such-mic")

	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
	if !gate.IsTradingDay(monday) {
		t.Error("Monday must be a trading day in the fallback gate")
	}
	if gate.IsTradingDay(saturday) {
		t.Error("Saturday must not be a trading day")
	}
}

func TestTradingDayGate_Exchange(t *testing.T) {
	gate := NewTradingDayGate("xnys")

	weekday := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	if !gate.IsTradingDay(weekday) {
		t.Error("ordinary Tuesday must be a trading day on XNYS")
	}
	if gate.IsTradingDay(sunday) {
		t.Error("Sunday must not be a trading day on XNYS")
	}
}
