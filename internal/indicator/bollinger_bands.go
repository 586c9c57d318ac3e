package indicator

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
type BollingerBands struct {
	period    int     // Number of periods for moving average
	numStdDev float64 // Width of the bands in standard deviations
}

// NewBollingerBands creates Bollinger Bands over period observations, numStdDev wide.
func NewBollingerBands(period int, numStdDev float64) (*BollingerBands, error) {
	if err := validatePeriod(types.IndicatorTypeBollingerBands, period); err != nil {
		return nil, err
	}

	if numStdDev < 0 {
		return nil, errors.NewConfigurationErrorf(errors.ErrCodeInvalidThreshold,
			"bollinger band width must not be negative, got %v", numStdDev)
	}

	return &BollingerBands{
		period:    period,
		numStdDev: numStdDev,
	}, nil
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Period returns the window length.
func (bb *BollingerBands) Period() int {
	return bb.period
}

// Compute returns the middle band.
func (bb *BollingerBands) Compute(price *panel.Panel) (*panel.Panel, error) {
	if err := requirePanel(bb.Name(), price); err != nil {
		return nil, err
	}

	return price.Map(func(series []float64) []float64 {
		return rollingMean(series, bb.period)
	}), nil
}

// Bands returns the upper and lower bands, mean ± numStdDev·std.
func (bb *BollingerBands) Bands(price *panel.Panel) (*panel.Panel, *panel.Panel, error) {
	if err := requirePanel(bb.Name(), price); err != nil {
		return nil, nil, err
	}

	upper := price.Map(func(series []float64) []float64 {
		return band(series, bb.period, bb.numStdDev)
	})

	lower := price.Map(func(series []float64) []float64 {
		return band(series, bb.period, -bb.numStdDev)
	})

	return upper, lower, nil
}

func band(series []float64, period int, width float64) []float64 {
	mean := rollingMean(series, period)
	std := rollingStd(series, period)

	out := make([]float64, len(series))
	for t := range out {
		out[t] = mean[t] + width*std[t]
	}

	return out
}
