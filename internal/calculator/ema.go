package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the last `period` values.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMASeries computes the full EMA series over prices. The value at
// index period-1 is seeded with the simple mean of the first `period`
// prices; earlier indices are NaN. Smoothing factor is 2/(period+1).
func CalculateEMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) < period {
		return nil, errors.New("not enough data for EMA calculation")
	}

	ema := make([]float64, len(prices))
	for i := 0; i < period-1; i++ {
		ema[i] = math.NaN()
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
	}
	ema[period-1] = seed / float64(period)

	alpha := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		ema[i] = prices[i]*alpha + ema[i-1]*(1-alpha)
	}
	return ema, nil
}

// CalculateEMA returns the latest EMA value over prices.
func CalculateEMA(prices []float64, period int) (float64, error) {
	series, err := CalculateEMASeries(prices, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}
