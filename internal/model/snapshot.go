package model

import (
	"encoding/json"
	"time"
)

// NA is the explicit sentinel used wherever a numeric field cannot be
// computed. Downstream consumers always see a value, never a missing key.
const NA = "N/A"

// IndicatorSnapshot holds the formatted indicator readings for one
// (instrument, timeframe) pair. Price-scale fields carry 5 decimals,
// RSI carries 2; any undefined value is the NA sentinel.
type IndicatorSnapshot struct {
	Tail       CandleSeries // last 5 bars, fewer if history is short
	EMA20      string
	EMA50      string
	RSI        string
	MACD       string
	MACDHist   string
	MACDSignal string
}

// PivotLevels holds standard floor-trader pivots derived from the prior
// day's high/low/close, formatted to 5 decimals.
type PivotLevels struct {
	PP string
	R1 string
	R2 string
	R3 string
	S1 string
	S2 string
	S3 string
}

// UnavailablePivots returns the all-NA level set used when no completed
// prior day exists.
func UnavailablePivots() PivotLevels {
	return PivotLevels{PP: NA, R1: NA, R2: NA, R3: NA, S1: NA, S2: NA, S3: NA}
}

// TimeframeIndicators pairs a snapshot with its field-name prefix
// (e.g. "h1" → h1_ema20, h1_rsi, ...).
type TimeframeIndicators struct {
	Prefix string
	Ind    IndicatorSnapshot
}

// TechnicalSnapshot is the per-instrument aggregate handed to the prompt
// assembler: one indicator block per timeframe plus prev-day levels and
// daily pivots. Built fresh each cycle, immutable afterwards.
type TechnicalSnapshot struct {
	Pair         string
	Frames       []TimeframeIndicators
	PrevDayHigh  string
	PrevDayLow   string
	PrevDayClose string
	Pivots       PivotLevels
	BuiltAt      time.Time
}

type tailBar struct {
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// TailJSON renders a candle tail as a JSON array of bars, the shape the
// prompt templates embed verbatim.
func TailJSON(tail CandleSeries) string {
	bars := make([]tailBar, len(tail))
	for i, b := range tail {
		bars[i] = tailBar{Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
	}
	out, err := json.Marshal(bars)
	if err != nil {
		return "[]"
	}
	return string(out)
}

// Fields flattens the snapshot into the fixed key set consumed by the
// prompt assembler: {tf}_ohlc, {tf}_ema20, ..., prev_day_*, daily_pivot_*.
func (t *TechnicalSnapshot) Fields() map[string]string {
	fields := make(map[string]string, len(t.Frames)*7+10)
	for _, fr := range t.Frames {
		fields[fr.Prefix+"_ohlc"] = TailJSON(fr.Ind.Tail)
		fields[fr.Prefix+"_ema20"] = fr.Ind.EMA20
		fields[fr.Prefix+"_ema50"] = fr.Ind.EMA50
		fields[fr.Prefix+"_rsi"] = fr.Ind.RSI
		fields[fr.Prefix+"_macd"] = fr.Ind.MACD
		fields[fr.Prefix+"_macdh"] = fr.Ind.MACDHist
		fields[fr.Prefix+"_macds"] = fr.Ind.MACDSignal
	}
	fields["prev_day_high"] = t.PrevDayHigh
	fields["prev_day_low"] = t.PrevDayLow
	fields["prev_day_close"] = t.PrevDayClose
	fields["daily_pivot_pp"] = t.Pivots.PP
	fields["daily_pivot_r1"] = t.Pivots.R1
	fields["daily_pivot_r2"] = t.Pivots.R2
	fields["daily_pivot_r3"] = t.Pivots.R3
	fields["daily_pivot_s1"] = t.Pivots.S1
	fields["daily_pivot_s2"] = t.Pivots.S2
	fields["daily_pivot_s3"] = t.Pivots.S3
	return fields
}
