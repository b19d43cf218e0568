package collector

import (
	"errors"
	"strings"
	"testing"

	"ForexSentry/internal/model"
)

func loadIntraday(session *MockSession, instrument string, tfSeconds, n int) {
	candles := make([]RawCandle, n)
	base := 1.1000
	for i := 0; i < n; i++ {
		candles[i] = rawBar(int64((i+1)*tfSeconds), base+float64(i)*0.0005)
	}
	session.Load(instrument, tfSeconds, candles)
}

func loadDaily(session *MockSession, instrument string) {
	session.Load(instrument, 86400, []RawCandle{
		{From: 86400, Open: fptr(1.1900), Max: 1.2000, Min: 1.1900, Close: 1.1950, Volume: 500},
		{From: 172800, Open: fptr(1.1950), Max: 1.1990, Min: 1.1920, Close: 1.1960, Volume: 120},
	})
}

func fullyLoadedSession(instrument string) *MockSession {
	session := NewMockSession()
	for _, frame := range DefaultTimeframes {
		loadIntraday(session, instrument, frame.Seconds, 100)
	}
	loadDaily(session, instrument)
	return session
}

func TestBuild_FullSnapshot(t *testing.T) {
	session := fullyLoadedSession("EURUSD")
	builder := NewBuilder(testRepository(session))

	snap, err := builder.Build("EUR/USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Pair != "EUR/USD" {
		t.Errorf("pair: got %q", snap.Pair)
	}
	if len(snap.Frames) != 3 {
		t.Fatalf("expected 3 timeframes, got %d", len(snap.Frames))
	}
	for _, frame := range snap.Frames {
		if frame.Ind.EMA20 == model.NA {
			t.Errorf("%s: expected numeric EMA20 from 100 candles", frame.Prefix)
		}
		if len(frame.Ind.Tail) != 5 {
			t.Errorf("%s: expected 5-candle tail, got %d", frame.Prefix, len(frame.Ind.Tail))
		}
	}

	// Prior-day levels come from the second-to-last daily candle.
	if snap.PrevDayHigh != "1.20000" || snap.PrevDayLow != "1.19000" || snap.PrevDayClose != "1.19500" {
		t.Errorf("prev day levels: H=%s L=%s C=%s", snap.PrevDayHigh, snap.PrevDayLow, snap.PrevDayClose)
	}
	if snap.Pivots.PP != "1.19500" {
		t.Errorf("pivot PP: got %s", snap.Pivots.PP)
	}

	// The pair name travels with a slash; the subscription does not.
	for _, key := range session.StartCalls {
		if strings.Contains(key, "/") {
			t.Errorf("instrument key must not contain a slash: %s", key)
		}
	}
}

func TestBuild_EmptyIntradayFailsPair(t *testing.T) {
	session := fullyLoadedSession("EURUSD")
	session.Load("EURUSD", 3600, nil) // h1 dries up
	builder := NewBuilder(testRepository(session))

	_, err := builder.Build("EUR/USD")
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}

	// Another instrument is unaffected.
	other := fullyLoadedSession("GBPUSD")
	otherBuilder := NewBuilder(testRepository(other))
	if _, err := otherBuilder.Build("GBP/USD"); err != nil {
		t.Errorf("unaffected pair must build: %v", err)
	}
}

func TestBuild_MissingPriorDayDegrades(t *testing.T) {
	session := NewMockSession()
	for _, frame := range DefaultTimeframes {
		loadIntraday(session, "USDJPY", frame.Seconds, 100)
	}
	session.Load("USDJPY", 86400, []RawCandle{rawBar(86400, 150.10)})
	builder := NewBuilder(testRepository(session))

	snap, err := builder.Build("USD/JPY")
	if err != nil {
		t.Fatalf("a thin daily history must not fail the pair: %v", err)
	}
	if snap.PrevDayHigh != model.NA || snap.PrevDayClose != model.NA {
		t.Errorf("expected NA prev-day levels, got H=%s C=%s", snap.PrevDayHigh, snap.PrevDayClose)
	}
	if snap.Pivots.PP != model.NA || snap.Pivots.R3 != model.NA {
		t.Errorf("expected NA pivots, got PP=%s R3=%s", snap.Pivots.PP, snap.Pivots.R3)
	}
	if len(snap.Frames) != 3 {
		t.Errorf("intraday frames must still be present, got %d", len(snap.Frames))
	}
}
