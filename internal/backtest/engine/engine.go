package engine

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/internal/panel"
)

const (
	// PortfolioColumn names the single column of Result.Portfolio.
	PortfolioColumn = "Portfolio"
	// CashColumn names the single column of Result.Cash.
	CashColumn = "Cash"
)

// Result is the outcome of one backtest run. Both panels are TimeOriented, have a
// single column and share the time axis of the price panel.
type Result struct {
	// Portfolio is cash plus the marked to market value of all positions
	Portfolio *panel.Panel
	// Cash is the initial capital minus the cumulative cost of all trades
	Cash *panel.Panel
}

// FinalPortfolio returns the last portfolio value, or false for an empty run.
func (r Result) FinalPortfolio() (float64, bool) {
	return last(r.Portfolio)
}

// FinalCash returns the last cash value, or false for an empty run.
func (r Result) FinalCash() (float64, bool) {
	return last(r.Cash)
}

func last(p *panel.Panel) (float64, bool) {
	if p == nil || p.NumTimes() == 0 || p.NumInstruments() == 0 {
		return 0, false
	}

	return p.At(p.NumTimes()-1, 0), true
}

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called when the entire backtest begins.
type OnBacktestStartCallback func(totalStrategies int, totalTimes int, totalInstruments int) error

// OnBacktestEndCallback is called when the entire backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnStrategyStartCallback is called before a strategy generates its signals.
type OnStrategyStartCallback func(strategyIndex int, strategyName string, totalStrategies int) error

// OnStrategyEndCallback is called after a strategy finished, successfully or not.
type OnStrategyEndCallback func(strategyIndex int, strategyName string, err error)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
// Callbacks are never invoked concurrently.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnStrategyStart *OnStrategyStartCallback
	OnStrategyEnd   *OnStrategyEndCallback
}

// Engine evaluates one position panel against one price panel.
type Engine interface {
	// Run computes the portfolio and cash series. It never mutates its inputs and
	// returns the same result every time it is called.
	Run() (Result, error)
	// Result returns the outcome of the last Run, if any.
	Result() optional.Option[Result]
	// Price returns the price panel the engine evaluates.
	Price() *panel.Panel
	// Position returns the target positions the engine evaluates.
	Position() *panel.Panel
}
