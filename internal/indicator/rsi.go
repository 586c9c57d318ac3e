package indicator

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
)

// RSI represents the Relative Strength Index indicator.
//
// Gains and losses are the positive and negative parts of the one-row price
// change; the first row, which has no change, counts as neither. The RSI is
// 100 - 100/(1+RS) with RS the rolling mean of gains over the rolling mean of
// losses. A window with losses but no gains gives 0, one with gains but no
// losses gives 100, and a flat window is undefined.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator.
func NewRSI(period int) (*RSI, error) {
	if err := validatePeriod(types.IndicatorTypeRSI, period); err != nil {
		return nil, err
	}

	return &RSI{
		period: period,
	}, nil
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Period returns the averaging window.
func (r *RSI) Period() int {
	return r.period
}

// Compute returns the RSI of every instrument.
func (r *RSI) Compute(price *panel.Panel) (*panel.Panel, error) {
	if err := requirePanel(r.Name(), price); err != nil {
		return nil, err
	}

	return price.Map(func(series []float64) []float64 {
		return relativeStrengthIndex(series, r.period)
	}), nil
}

func relativeStrengthIndex(series []float64, period int) []float64 {
	delta := diff(series)
	gains := make([]float64, len(delta))
	losses := make([]float64, len(delta))

	for t, change := range delta {
		// comparisons with an undefined change are false, so it counts as zero
		if change > 0 {
			gains[t] = change
		}

		if change < 0 {
			losses[t] = -change
		}
	}

	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)

	out := make([]float64, len(series))
	for t := range out {
		rs := avgGain[t] / avgLoss[t]
		out[t] = 100 - 100/(1+rs)
	}

	return out
}
