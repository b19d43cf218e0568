package calculator

import (
	"errors"
	"math"

	"ForexSentry/internal/model"
)

// ComputePivots derives standard floor-trader pivot levels from the prior
// day's high/low/close. Pure and deterministic; the only error condition
// is a non-finite input.
func ComputePivots(high, low, close float64) (model.PivotLevels, error) {
	for _, v := range []float64{high, low, close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.UnavailablePivots(), errors.New("pivot inputs must be finite")
		}
	}

	pp := (high + low + close) / 3
	return model.PivotLevels{
		PP: FormatPrice(pp),
		R1: FormatPrice(2*pp - low),
		S1: FormatPrice(2*pp - high),
		R2: FormatPrice(pp + (high - low)),
		S2: FormatPrice(pp - (high - low)),
		R3: FormatPrice(high + 2*(pp-low)),
		S3: FormatPrice(low - 2*(high-pp)),
	}, nil
}
