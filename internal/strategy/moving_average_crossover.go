package strategy

import (
	"github.com/rxtech-lab/knightrade/internal/indicator"
	"github.com/rxtech-lab/knightrade/internal/panel"
)

// MovingAverageCrossoverConfig configures MovingAverageCrossover.
type MovingAverageCrossoverConfig struct {
	ShortWindow int     `yaml:"short_window" json:"short_window" jsonschema:"title=Short Window,description=Observations in the short rolling mean,minimum=1,default=20" validate:"gt=0"`
	LongWindow  int     `yaml:"long_window" json:"long_window" jsonschema:"title=Long Window,description=Observations in the long rolling mean,minimum=1,default=50" validate:"gt=0"`
	Amount      float64 `yaml:"amount" json:"amount" jsonschema:"title=Amount,description=Position size taken on a signal,exclusiveMinimum=0,default=1" validate:"gt=0"`
}

// DefaultMovingAverageCrossoverConfig returns a 20/50 crossover trading one unit.
func DefaultMovingAverageCrossoverConfig() MovingAverageCrossoverConfig {
	return MovingAverageCrossoverConfig{
		ShortWindow: 20,
		LongWindow:  50,
		Amount:      1,
	}
}

// MovingAverageCrossover goes long while price is above the short rolling mean and
// short while it is below the long rolling mean. When both hold, short wins.
type MovingAverageCrossover struct {
	config MovingAverageCrossoverConfig
	short  *indicator.MA
	long   *indicator.MA
}

// NewMovingAverageCrossover validates config and builds the strategy.
func NewMovingAverageCrossover(config MovingAverageCrossoverConfig) (*MovingAverageCrossover, error) {
	if err := validateConfig(StrategyTypeMovingAverageCrossover, config); err != nil {
		return nil, err
	}

	short, err := indicator.NewMA(config.ShortWindow)
	if err != nil {
		return nil, err
	}

	long, err := indicator.NewMA(config.LongWindow)
	if err != nil {
		return nil, err
	}

	return &MovingAverageCrossover{
		config: config,
		short:  short,
		long:   long,
	}, nil
}

func (s *MovingAverageCrossover) Name() string {
	return string(StrategyTypeMovingAverageCrossover)
}

func (s *MovingAverageCrossover) Type() StrategyType {
	return StrategyTypeMovingAverageCrossover
}

func (s *MovingAverageCrossover) Config() MovingAverageCrossoverConfig {
	return s.config
}

// WarmupPeriod is the longer window plus the one-period lag of the means.
func (s *MovingAverageCrossover) WarmupPeriod() int {
	return max(s.config.ShortWindow, s.config.LongWindow) + 1
}

func (s *MovingAverageCrossover) GenerateSignals(price *panel.Panel) (*panel.Panel, error) {
	if err := validatePrice(s.Name(), price); err != nil {
		return nil, err
	}

	shortMean, err := s.short.Compute(price)
	if err != nil {
		return nil, err
	}

	longMean, err := s.long.Compute(price)
	if err != nil {
		return nil, err
	}

	shortMean = indicator.Shift(shortMean, 1)
	longMean = indicator.Shift(longMean, 1)

	signals := newRawSignals(price)
	signals.assignWhere(func(t, i int) bool {
		return price.At(t, i) > shortMean.At(t, i)
	}, s.config.Amount)
	signals.assignWhere(func(t, i int) bool {
		return price.At(t, i) < longMean.At(t, i)
	}, -s.config.Amount)

	return signals.finalize()
}
