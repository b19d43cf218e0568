package calculator

import (
	"fmt"
	"math"

	"ForexSentry/internal/model"
)

// Indicator parameters. minBars is the MACD(12,26,9) slow period: below it
// every indicator field degrades to the NA sentinel, matching the
// insufficient-history contract. The OHLC tail is reported regardless.
const (
	emaFastPeriod = 20
	emaSlowPeriod = 50
	rsiPeriod     = 14
	macdFast      = 12
	macdSlow      = 26
	macdSignal    = 9
	minBars       = macdSlow
	tailLength    = 5
)

// FormatPrice renders a price-scale value to 5 decimals, or NA when the
// value is undefined.
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.NA
	}
	return fmt.Sprintf("%.5f", v)
}

// FormatRSI renders an RSI value to 2 decimals, or NA when undefined.
func FormatRSI(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.NA
	}
	return fmt.Sprintf("%.2f", v)
}

// ComputeIndicators turns a candle series into an IndicatorSnapshot.
// A series shorter than minBars yields the tail only, everything else NA;
// EMA50 additionally needs 50 bars; the MACD signal line and histogram need
// enough bars for at least one EMA(9) point over the MACD line.
func ComputeIndicators(series model.CandleSeries) model.IndicatorSnapshot {
	snap := model.IndicatorSnapshot{
		Tail:       series.Tail(tailLength),
		EMA20:      model.NA,
		EMA50:      model.NA,
		RSI:        model.NA,
		MACD:       model.NA,
		MACDHist:   model.NA,
		MACDSignal: model.NA,
	}
	if len(series) < minBars {
		return snap
	}

	closes := series.Closes()

	if ema20, err := CalculateEMA(closes, emaFastPeriod); err == nil {
		snap.EMA20 = FormatPrice(ema20)
	}
	if len(closes) >= emaSlowPeriod {
		if ema50, err := CalculateEMA(closes, emaSlowPeriod); err == nil {
			snap.EMA50 = FormatPrice(ema50)
		}
	}
	if rsi, err := CalculateRSI(closes, rsiPeriod); err == nil {
		snap.RSI = FormatRSI(rsi)
	}
	if macd, err := CalculateMACD(closes, macdFast, macdSlow, macdSignal); err == nil {
		last := len(closes) - 1
		snap.MACD = FormatPrice(macd.MACD[last])
		snap.MACDSignal = FormatPrice(macd.Signal[last])
		snap.MACDHist = FormatPrice(macd.Histogram[last])
	}
	return snap
}
