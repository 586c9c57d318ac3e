package indicator

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// Indicator is a rolling statistic computed independently for every instrument
// of a price panel. The result has the input's labels and orientation; cells
// whose window is not full yet are undefined.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Period returns the number of observations one value needs
	Period() int
	// Compute evaluates the indicator over every instrument of price
	Compute(price *panel.Panel) (*panel.Panel, error)
}

func validatePeriod(name types.IndicatorType, period int) error {
	if period <= 0 {
		return errors.NewConfigurationErrorf(errors.ErrCodeInvalidPeriod,
			"%s period must be a positive integer, got %d", name, period)
	}

	return nil
}

func requirePanel(name types.IndicatorType, price *panel.Panel) error {
	if price == nil {
		return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch, "%s needs a price panel, got nil", name)
	}

	return nil
}

// Shift lags every instrument by periods rows. The first periods rows become undefined.
func Shift(p *panel.Panel, periods int) *panel.Panel {
	return p.Map(func(series []float64) []float64 {
		return shift(series, periods)
	})
}
