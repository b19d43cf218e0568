package calculator

import (
	"errors"
	"math"
)

// MACDSeries holds the three MACD component series, index-aligned with the
// input closes. Indices where a component is not yet defined are NaN: the
// MACD line starts at slow-1, the signal line and histogram at
// slow+signal-2.
type MACDSeries struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// CalculateMACD computes MACD(fast, slow, signal) over closes. Requires at
// least `slow` closes so that one MACD point exists; the signal line and
// histogram additionally require slow+signal-1 closes and stay NaN before
// that. Histogram is always the exact difference MACD-Signal.
func CalculateMACD(closes []float64, fast, slow, signal int) (*MACDSeries, error) {
	if fast <= 0 || signal <= 0 || slow <= fast {
		return nil, errors.New("invalid MACD periods")
	}
	if len(closes) < slow {
		return nil, errors.New("not enough data for MACD calculation")
	}

	fastEMA, err := CalculateEMASeries(closes, fast)
	if err != nil {
		return nil, err
	}
	slowEMA, err := CalculateEMASeries(closes, slow)
	if err != nil {
		return nil, err
	}

	n := len(closes)
	macd := make([]float64, n)
	sig := make([]float64, n)
	hist := make([]float64, n)
	for i := 0; i < n; i++ {
		macd[i] = math.NaN()
		sig[i] = math.NaN()
		hist[i] = math.NaN()
	}
	for i := slow - 1; i < n; i++ {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	// Signal is an EMA of the defined MACD segment.
	defined := macd[slow-1:]
	if len(defined) >= signal {
		sigDefined, err := CalculateEMASeries(defined, signal)
		if err != nil {
			return nil, err
		}
		copy(sig[slow-1:], sigDefined)
		for i := slow - 1; i < n; i++ {
			if !math.IsNaN(sig[i]) {
				hist[i] = macd[i] - sig[i]
			}
		}
	}

	return &MACDSeries{MACD: macd, Signal: sig, Histogram: hist}, nil
}
