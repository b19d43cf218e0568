package calendar

import (
	"reflect"
	"testing"

	"ForexSentry/internal/model"
)

func TestNormalize_CleanRow(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())
	events, dropped := n.Normalize([]RawEventRow{
		{Time: "8:30am", Currency: "USD", Impact: "high", Event: "Non-Farm Employment Change", Actual: "227K", Forecast: "220K", Previous: "212K"},
	})
	if dropped != 0 {
		t.Fatalf("dropped %d rows from clean input", dropped)
	}
	want := model.EconomicEvent{
		Time: "8:30am", Currency: "USD", Impact: "High",
		Event: "Non-Farm Employment Change", Actual: "227K", Forecast: "220K", Previous: "212K",
	}
	if events[0] != want {
		t.Errorf("got %+v, want %+v", events[0], want)
	}
}

func TestNormalize_ShiftedRow(t *testing.T) {
	// A row shifted one column left: currency lands in Impact, the event
	// name in Actual. The repair must recover both and clear the impact.
	n := NewNormalizer(DefaultVocabulary())
	events, dropped := n.Normalize([]RawEventRow{
		{Time: "2:00pm", Currency: "2:00pm", Impact: "EUR", Event: "EUR", Actual: "ECB President Lagarde Speaks"},
	})
	if dropped != 0 {
		t.Fatalf("dropped %d, want 0", dropped)
	}
	ev := events[0]
	if ev.Currency != "EUR" {
		t.Errorf("currency: got %q", ev.Currency)
	}
	if ev.Event != "ECB President Lagarde Speaks" {
		t.Errorf("event: got %q", ev.Event)
	}
	if ev.Impact != "" {
		t.Errorf("impact must clear when it held a currency code, got %q", ev.Impact)
	}
	if ev.Time != "2:00pm" {
		t.Errorf("time: got %q", ev.Time)
	}
}

func TestNormalize_DropsUnrecoverable(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())
	events, dropped := n.Normalize([]RawEventRow{
		{Time: "9:00am", Currency: "XXX", Event: "Some Event"},       // no whitelisted currency
		{Time: "9:00am", Currency: "GBP", Event: "ab", Actual: "GB"}, // no usable event name
		{Time: "10:00am", Currency: "GBP", Event: "BOE Gov Speaks"},  // fine
	})
	if dropped != 2 {
		t.Errorf("dropped: got %d, want 2", dropped)
	}
	if len(events) != 1 || events[0].Event != "BOE Gov Speaks" {
		t.Errorf("surviving events: %+v", events)
	}
}

func TestNormalize_TimeHandling(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())
	tests := []struct {
		name string
		row  RawEventRow
		want string
	}{
		{"clock time", RawEventRow{Time: "11:45pm", Currency: "JPY", Event: "BOJ Policy Rate"}, "11:45pm"},
		{"sentinel", RawEventRow{Time: "ALL DAY", Currency: "CHF", Event: "Bank Holiday"}, "All Day"},
		{"tentative", RawEventRow{Time: "tentative", Currency: "CAD", Event: "BOC Rate Decision"}, "Tentative"},
		{"garbage time", RawEventRow{Time: "n/a", Currency: "AUD", Event: "Cash Rate"}, "Tentative"},
		{"time shifted into currency", RawEventRow{Time: "", Currency: "4:30am", Impact: "GBP", Event: "GBP", Actual: "Retail Sales m/m"}, "4:30am"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, dropped := n.Normalize([]RawEventRow{tt.row})
			if dropped != 0 {
				t.Fatalf("row dropped")
			}
			if events[0].Time != tt.want {
				t.Errorf("time: got %q, want %q", events[0].Time, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())
	rows := []RawEventRow{
		{Time: "8:30am", Currency: "USD", Impact: "high", Event: "CPI m/m", Actual: "0.3%"},
		{Time: "2:00pm", Currency: "2:00pm", Impact: "EUR", Event: "EUR", Actual: "Main Refinancing Rate"},
		{Time: "ALL DAY", Currency: "NZD", Event: "Bank Holiday"},
	}
	once, _ := n.Normalize(rows)

	again := make([]RawEventRow, len(once))
	for i, ev := range once {
		again[i] = RawEventRow{
			Time: ev.Time, Currency: ev.Currency, Impact: ev.Impact,
			Event: ev.Event, Actual: ev.Actual, Forecast: ev.Forecast, Previous: ev.Previous,
		}
	}
	twice, dropped := n.Normalize(again)
	if dropped != 0 {
		t.Fatalf("second pass dropped %d rows", dropped)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization not idempotent:\n once: %+v\ntwice: %+v", once, twice)
	}
}
