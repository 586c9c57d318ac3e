package engine

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/internal/backtest/engine"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/strategy"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"go.uber.org/zap"
)

// BacktestEngineV1 evaluates a position panel against a price panel. Positions are
// target quantities; the change between two rows is traded at the later row's price.
type BacktestEngineV1 struct {
	config   BacktestEngineV1Config
	price    *panel.Panel
	position *panel.Panel
	strategy string
	log      *logger.Logger
	result   optional.Option[engine.Result]
}

// Option customizes a BacktestEngineV1.
type Option func(*BacktestEngineV1)

// WithLogger sets the logger of the engine. The default discards everything.
func WithLogger(log *logger.Logger) Option {
	return func(b *BacktestEngineV1) {
		b.log = logger.OrNop(log)
	}
}

// WithStrategyName labels the run, e.g. in statistics and result folders.
func WithStrategyName(name string) Option {
	return func(b *BacktestEngineV1) {
		b.strategy = name
	}
}

func newBacktestEngineV1(config BacktestEngineV1Config, opts ...Option) *BacktestEngineV1 {
	b := &BacktestEngineV1{
		config:   config,
		price:    nil,
		position: nil,
		strategy: "",
		log:      logger.NewNopLogger(),
		result:   optional.None[engine.Result](),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBacktestEngineV1 validates price, position and config and returns an engine
// ready to Run. The configured time window is applied to both panels.
func NewBacktestEngineV1(price *panel.Panel, position *panel.Panel, config BacktestEngineV1Config, opts ...Option) (*BacktestEngineV1, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	b := newBacktestEngineV1(config, opts...)
	if err := b.load(price, position); err != nil {
		return nil, err
	}

	return b, nil
}

// NewBacktestEngineV1WithStrategy invokes generator once on price and evaluates
// the resulting positions. Signals are generated on the full price history; the
// configured time window only trims the evaluation.
func NewBacktestEngineV1WithStrategy(generator strategy.SignalGenerator, price *panel.Panel, config BacktestEngineV1Config, opts ...Option) (*BacktestEngineV1, error) {
	if generator == nil {
		return nil, errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration, "signal generator is nil")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := validatePricePanel(price); err != nil {
		return nil, err
	}

	b := newBacktestEngineV1(config, append([]Option{WithStrategyName(generator.Name())}, opts...)...)

	if warmup := generator.WarmupPeriod(); price.NumTimes() < warmup {
		b.log.Warn("Insufficient history, positions stay flat until the statistics are defined",
			zap.String("strategy", b.strategy),
			zap.Error(errors.NewInsufficientHistoryWarning(warmup, price.NumTimes(), b.strategy)),
		)
	}

	position, err := generator.GenerateSignals(price)
	if err != nil {
		b.log.Error("Failed to generate signals",
			zap.String("strategy", b.strategy),
			zap.Error(err),
		)

		return nil, err
	}

	if err := b.load(price, position); err != nil {
		return nil, err
	}

	return b, nil
}

// load checks the panels and keeps the rows inside the configured window.
func (b *BacktestEngineV1) load(price *panel.Panel, position *panel.Panel) error {
	if err := validatePricePanel(price); err != nil {
		return err
	}

	if position == nil {
		return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch, "position panel is nil")
	}

	if err := panel.Align(price, position); err != nil {
		return err
	}

	if err := validatePositions(position); err != nil {
		return err
	}

	b.price = price.Slice(b.config.StartTime, b.config.EndTime)
	b.position = position.Slice(b.config.StartTime, b.config.EndTime)

	b.log.Debug("Backtest engine initialized",
		zap.String("strategy", b.strategy),
		zap.Int("times", b.price.NumTimes()),
		zap.Int("instruments", b.price.NumInstruments()),
		zap.Float64("initial_capital", b.config.InitialCapital),
	)

	return nil
}

func validatePricePanel(price *panel.Panel) error {
	if price == nil {
		return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch, "price panel is nil")
	}

	if price.Orientation() != panel.TimeOriented {
		return errors.NewShapeErrorf(errors.ErrCodeInvalidOrientation,
			"price panel must be %s, got %s", panel.TimeOriented, price.Orientation())
	}

	return nil
}

func validatePositions(position *panel.Panel) error {
	instruments := position.Instruments()
	times := position.Times()

	for t := range times {
		for i := range instruments {
			if panel.IsUndefined(position.At(t, i)) {
				return errors.NewShapeErrorf(errors.ErrCodeUndefinedPosition,
					"position for %q at %s is undefined", instruments[i], times[t])
			}
		}
	}

	return nil
}

// Run implements engine.Engine.
//
// For every row t, with trade[0] = position[0] and trade[t] = position[t] - position[t-1]:
//
//	cost[t]      = Σ_{s≤t} Σ_i trade[s,i]·price[s,i]
//	cash[t]      = initial_capital - cost[t]
//	portfolio[t] = Σ_i position[t,i]·price[t,i] + cash[t]
//
// Undefined prices contribute nothing to either sum.
func (b *BacktestEngineV1) Run() (engine.Result, error) {
	numTimes := b.price.NumTimes()
	numInstruments := b.price.NumInstruments()

	portfolio := make([]float64, numTimes)
	cash := make([]float64, numTimes)
	cost := 0.0

	for t := 0; t < numTimes; t++ {
		markToMarket := 0.0
		tradeCost := 0.0

		for i := 0; i < numInstruments; i++ {
			price := b.price.At(t, i)
			if panel.IsUndefined(price) {
				continue
			}

			position := b.position.At(t, i)

			trade := position
			if t > 0 {
				trade = position - b.position.At(t-1, i)
			}

			markToMarket += position * price
			tradeCost += trade * price
		}

		cost += tradeCost
		cash[t] = b.config.InitialCapital - cost
		portfolio[t] = markToMarket + cash[t]
	}

	times := b.price.Times()

	portfolioPanel, err := panel.NewSeries(times, engine.PortfolioColumn, portfolio)
	if err != nil {
		return engine.Result{}, err
	}

	cashPanel, err := panel.NewSeries(times, engine.CashColumn, cash)
	if err != nil {
		return engine.Result{}, err
	}

	result := engine.Result{
		Portfolio: portfolioPanel,
		Cash:      cashPanel,
	}
	b.result = optional.Some(result)

	b.log.Debug("Backtest finished",
		zap.String("strategy", b.strategy),
		zap.Int("times", numTimes),
	)

	return result, nil
}

// Result implements engine.Engine.
func (b *BacktestEngineV1) Result() optional.Option[engine.Result] {
	return b.result
}

// Price implements engine.Engine.
func (b *BacktestEngineV1) Price() *panel.Panel {
	return b.price
}

// Position implements engine.Engine.
func (b *BacktestEngineV1) Position() *panel.Panel {
	return b.position
}

// Config returns the configuration of the engine.
func (b *BacktestEngineV1) Config() BacktestEngineV1Config {
	return b.config
}

// StrategyName returns the label of the run.
func (b *BacktestEngineV1) StrategyName() string {
	return b.strategy
}

var _ engine.Engine = (*BacktestEngineV1)(nil)
