package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CandleSeries is an ordered run of bars: strictly increasing timestamps,
// no duplicates. Repositories guarantee the invariant on construction.
type CandleSeries []OHLCV

// Closes extracts the close prices in series order.
func (s CandleSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Tail returns the last n bars, or the whole series if it is shorter.
func (s CandleSeries) Tail(n int) CandleSeries {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
