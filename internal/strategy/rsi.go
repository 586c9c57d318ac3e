package strategy

import (
	"github.com/rxtech-lab/knightrade/internal/indicator"
	"github.com/rxtech-lab/knightrade/internal/panel"
)

// RSIConfig configures RSI.
type RSIConfig struct {
	Window     int     `yaml:"window" json:"window" jsonschema:"title=Window,description=Observations in the gain and loss averages,minimum=1,default=14" validate:"gt=0"`
	Overbought float64 `yaml:"overbought" json:"overbought" jsonschema:"title=Overbought,description=RSI above which the strategy goes short,minimum=0,maximum=100,default=70" validate:"gte=0,lte=100"`
	Oversold   float64 `yaml:"oversold" json:"oversold" jsonschema:"title=Oversold,description=RSI below which the strategy goes long,minimum=0,maximum=100,default=30" validate:"gte=0,lte=100,ltfield=Overbought"`
	Amount     float64 `yaml:"amount" json:"amount" jsonschema:"title=Amount,description=Position size taken on a signal,exclusiveMinimum=0,default=1" validate:"gt=0"`
	// LagRSI compares against the previous bar's RSI instead of the current one.
	LagRSI bool `yaml:"lag_rsi" json:"lag_rsi" jsonschema:"title=Lag RSI,description=Compare against the previous bar's RSI,default=false"`
}

func DefaultRSIConfig() RSIConfig {
	return RSIConfig{
		Window:     14,
		Overbought: 70,
		Oversold:   30,
		Amount:     1,
		LagRSI:     false,
	}
}

// RSI goes long when the relative strength index is oversold and short when it is
// overbought. The decision is held from the next bar either way.
type RSI struct {
	config RSIConfig
	rsi    *indicator.RSI
}

func NewRSI(config RSIConfig) (*RSI, error) {
	if err := validateConfig(StrategyTypeRSI, config); err != nil {
		return nil, err
	}

	rsi, err := indicator.NewRSI(config.Window)
	if err != nil {
		return nil, err
	}

	return &RSI{
		config: config,
		rsi:    rsi,
	}, nil
}

func (s *RSI) Name() string {
	return string(StrategyTypeRSI)
}

func (s *RSI) Type() StrategyType {
	return StrategyTypeRSI
}

func (s *RSI) Config() RSIConfig {
	return s.config
}

func (s *RSI) WarmupPeriod() int {
	if s.config.LagRSI {
		return s.config.Window + 1
	}

	return s.config.Window
}

func (s *RSI) GenerateSignals(price *panel.Panel) (*panel.Panel, error) {
	if err := validatePrice(s.Name(), price); err != nil {
		return nil, err
	}

	rsi, err := s.rsi.Compute(price)
	if err != nil {
		return nil, err
	}

	if s.config.LagRSI {
		rsi = indicator.Shift(rsi, 1)
	}

	signals := newRawSignals(price)
	signals.assignWhere(func(t, i int) bool {
		return rsi.At(t, i) < s.config.Oversold
	}, s.config.Amount)
	signals.assignWhere(func(t, i int) bool {
		return rsi.At(t, i) > s.config.Overbought
	}, -s.config.Amount)

	return signals.finalize()
}
