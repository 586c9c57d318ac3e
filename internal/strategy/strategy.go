// Package strategy turns a price panel into a position panel.
//
// Every generator returns a TimeOriented panel with the labels of its input, one
// signed target quantity per cell. A decision can only use data up to the bar it
// is taken on, and it is held from the following bar, so the position at t is
// computable from data through t-1. Cells where no rule has fired yet carry the
// last decision forward; leading cells before any decision are flat (0).
package strategy

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// StrategyType identifies a strategy variant in configuration files.
type StrategyType string

const (
	StrategyTypeMovingAverageCrossover StrategyType = "moving_average_crossover"
	StrategyTypeMomentum               StrategyType = "momentum"
	StrategyTypeMeanReversion          StrategyType = "mean_reversion"
	StrategyTypeBollingerBands         StrategyType = "bollinger_bands"
	StrategyTypeRSI                    StrategyType = "rsi"
	StrategyTypeCustom                 StrategyType = "custom"
)

// SignalGenerator produces target positions from prices.
type SignalGenerator interface {
	// Name returns a human readable identifier, unique within one backtest run
	Name() string
	// Type returns the strategy variant
	Type() StrategyType
	// WarmupPeriod returns how many rows the strategy needs before all of its
	// lagged statistics are defined
	WarmupPeriod() int
	// GenerateSignals returns the position panel for price. It never mutates price.
	GenerateSignals(price *panel.Panel) (*panel.Panel, error)
}

func validatePrice(name string, price *panel.Panel) error {
	if price == nil {
		return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch, "%s: price panel is nil", name)
	}

	if price.Orientation() != panel.TimeOriented {
		return errors.NewShapeErrorf(errors.ErrCodeInvalidOrientation,
			"%s: price panel must be %s, got %s", name, panel.TimeOriented, price.Orientation())
	}

	return nil
}
