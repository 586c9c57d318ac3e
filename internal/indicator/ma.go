package indicator

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	period int
}

// NewMA creates a moving average over period observations.
func NewMA(period int) (*MA, error) {
	if err := validatePeriod(types.IndicatorTypeMA, period); err != nil {
		return nil, err
	}

	return &MA{
		period: period,
	}, nil
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Period returns the window length.
func (m *MA) Period() int {
	return m.period
}

// Compute returns the rolling mean of every instrument.
func (m *MA) Compute(price *panel.Panel) (*panel.Panel, error) {
	if err := requirePanel(m.Name(), price); err != nil {
		return nil, err
	}

	return price.Map(func(series []float64) []float64 {
		return rollingMean(series, m.period)
	}), nil
}
