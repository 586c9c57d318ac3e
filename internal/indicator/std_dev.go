package indicator

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
)

// StdDev is the rolling sample standard deviation.
type StdDev struct {
	period int
}

// NewStdDev creates a rolling standard deviation over period observations.
func NewStdDev(period int) (*StdDev, error) {
	if err := validatePeriod(types.IndicatorTypeStdDev, period); err != nil {
		return nil, err
	}

	return &StdDev{
		period: period,
	}, nil
}

// Name returns the name of the indicator.
func (s *StdDev) Name() types.IndicatorType {
	return types.IndicatorTypeStdDev
}

// Period returns the window length.
func (s *StdDev) Period() int {
	return s.period
}

// Compute returns the rolling standard deviation of every instrument. A period
// of one never produces a value.
func (s *StdDev) Compute(price *panel.Panel) (*panel.Panel, error) {
	if err := requirePanel(s.Name(), price); err != nil {
		return nil, err
	}

	return price.Map(func(series []float64) []float64 {
		return rollingStd(series, s.period)
	}), nil
}
