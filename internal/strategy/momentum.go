package strategy

import (
	"github.com/rxtech-lab/knightrade/internal/indicator"
	"github.com/rxtech-lab/knightrade/internal/panel"
)

// MomentumConfig configures Momentum.
type MomentumConfig struct {
	Window int     `yaml:"window" json:"window" jsonschema:"title=Window,description=Periods of the percent change,minimum=1,default=20" validate:"gt=0"`
	Amount float64 `yaml:"amount" json:"amount" jsonschema:"title=Amount,description=Position size taken on a signal,exclusiveMinimum=0,default=1" validate:"gt=0"`
}

func DefaultMomentumConfig() MomentumConfig {
	return MomentumConfig{
		Window: 20,
		Amount: 1,
	}
}

// Momentum follows the sign of the lagged percent change over Window periods.
type Momentum struct {
	config   MomentumConfig
	momentum *indicator.Momentum
}

func NewMomentum(config MomentumConfig) (*Momentum, error) {
	if err := validateConfig(StrategyTypeMomentum, config); err != nil {
		return nil, err
	}

	momentum, err := indicator.NewMomentum(config.Window)
	if err != nil {
		return nil, err
	}

	return &Momentum{
		config:   config,
		momentum: momentum,
	}, nil
}

func (s *Momentum) Name() string {
	return string(StrategyTypeMomentum)
}

func (s *Momentum) Type() StrategyType {
	return StrategyTypeMomentum
}

func (s *Momentum) Config() MomentumConfig {
	return s.config
}

// WarmupPeriod is Window+1 observations for the percent change, plus its lag.
func (s *Momentum) WarmupPeriod() int {
	return s.config.Window + 2
}

func (s *Momentum) GenerateSignals(price *panel.Panel) (*panel.Panel, error) {
	if err := validatePrice(s.Name(), price); err != nil {
		return nil, err
	}

	change, err := s.momentum.Compute(price)
	if err != nil {
		return nil, err
	}

	change = indicator.Shift(change, 1)

	signals := newRawSignals(price)
	signals.assignWhere(func(t, i int) bool {
		return change.At(t, i) > 0
	}, s.config.Amount)
	signals.assignWhere(func(t, i int) bool {
		return change.At(t, i) < 0
	}, -s.config.Amount)

	return signals.finalize()
}
