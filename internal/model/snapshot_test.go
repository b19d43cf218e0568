package model

import (
	"testing"
	"time"
)

func TestTechnicalSnapshot_Fields(t *testing.T) {
	snap := &TechnicalSnapshot{
		Pair: "EUR/USD",
		Frames: []TimeframeIndicators{
			{Prefix: "h4", Ind: IndicatorSnapshot{
				Tail:       CandleSeries{{Open: 1.1, High: 1.2, Low: 1.05, Close: 1.15, Volume: 100}},
				EMA20:      "1.10000",
				EMA50:      "1.09000",
				RSI:        "62.50",
				MACD:       "0.00100",
				MACDHist:   "0.00020",
				MACDSignal: "0.00080",
			}},
			{Prefix: "m15", Ind: IndicatorSnapshot{
				EMA20: NA, EMA50: NA, RSI: NA, MACD: NA, MACDHist: NA, MACDSignal: NA,
			}},
		},
		PrevDayHigh:  "1.20000",
		PrevDayLow:   "1.19000",
		PrevDayClose: "1.19500",
		Pivots:       PivotLevels{PP: "1.19500", R1: "1.20000", R2: "1.20500", R3: "1.21000", S1: "1.19000", S2: "1.18500", S3: "1.18000"},
		BuiltAt:      time.Now(),
	}

	fields := snap.Fields()

	want := map[string]string{
		"h4_ema20":       "1.10000",
		"h4_macds":       "0.00080",
		"h4_macdh":       "0.00020",
		"m15_rsi":        NA,
		"m15_ohlc":       "[]",
		"prev_day_high":  "1.20000",
		"daily_pivot_pp": "1.19500",
		"daily_pivot_r3": "1.21000",
		"daily_pivot_s3": "1.18000",
	}
	for key, val := range want {
		if fields[key] != val {
			t.Errorf("%s: got %q, want %q", key, fields[key], val)
		}
	}

	wantJSON := `[{"open":1.1,"high":1.2,"low":1.05,"close":1.15,"volume":100}]`
	if fields["h4_ohlc"] != wantJSON {
		t.Errorf("h4_ohlc: got %s", fields["h4_ohlc"])
	}

	// Two frames contribute 7 keys each, plus 3 prev-day and 7 pivot keys.
	if len(fields) != 2*7+10 {
		t.Errorf("field count: got %d, want %d", len(fields), 2*7+10)
	}
}

func TestCandleSeries_Tail(t *testing.T) {
	series := make(CandleSeries, 8)
	for i := range series {
		series[i].Close = float64(i)
	}

	tail := series.Tail(5)
	if len(tail) != 5 || tail[0].Close != 3 || tail[4].Close != 7 {
		t.Errorf("tail: %+v", tail)
	}

	short := series[:2]
	if got := short.Tail(5); len(got) != 2 {
		t.Errorf("short tail: got %d candles", len(got))
	}
}
