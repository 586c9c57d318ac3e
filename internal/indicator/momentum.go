package indicator

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
)

// Momentum is the percent change of price over period rows.
type Momentum struct {
	period int
}

// NewMomentum creates a momentum indicator.
func NewMomentum(period int) (*Momentum, error) {
	if err := validatePeriod(types.IndicatorTypeMomentum, period); err != nil {
		return nil, err
	}

	return &Momentum{
		period: period,
	}, nil
}

// Name returns the name of the indicator.
func (m *Momentum) Name() types.IndicatorType {
	return types.IndicatorTypeMomentum
}

// Period returns how many rows back the change is measured. One value needs
// period+1 observations.
func (m *Momentum) Period() int {
	return m.period
}

// Compute returns price[t]/price[t-period] - 1 for every instrument.
func (m *Momentum) Compute(price *panel.Panel) (*panel.Panel, error) {
	if err := requirePanel(m.Name(), price); err != nil {
		return nil, err
	}

	return price.Map(func(series []float64) []float64 {
		return pctChange(series, m.period)
	}), nil
}
