package strategy

import (
	"github.com/rxtech-lab/knightrade/internal/indicator"
	"github.com/rxtech-lab/knightrade/internal/panel"
)

// MeanReversionConfig configures MeanReversion.
type MeanReversionConfig struct {
	Window int     `yaml:"window" json:"window" jsonschema:"title=Window,description=Observations in the rolling mean and standard deviation,minimum=1,default=20" validate:"gt=0"`
	Amount float64 `yaml:"amount" json:"amount" jsonschema:"title=Amount,description=Position size taken on a signal,exclusiveMinimum=0,default=1" validate:"gt=0"`
}

func DefaultMeanReversionConfig() MeanReversionConfig {
	return MeanReversionConfig{
		Window: 20,
		Amount: 1,
	}
}

// MeanReversion buys below one standard deviation under the lagged rolling mean
// and sells above one standard deviation over it.
type MeanReversion struct {
	config MeanReversionConfig
	mean   *indicator.MA
	std    *indicator.StdDev
}

func NewMeanReversion(config MeanReversionConfig) (*MeanReversion, error) {
	if err := validateConfig(StrategyTypeMeanReversion, config); err != nil {
		return nil, err
	}

	mean, err := indicator.NewMA(config.Window)
	if err != nil {
		return nil, err
	}

	std, err := indicator.NewStdDev(config.Window)
	if err != nil {
		return nil, err
	}

	return &MeanReversion{
		config: config,
		mean:   mean,
		std:    std,
	}, nil
}

func (s *MeanReversion) Name() string {
	return string(StrategyTypeMeanReversion)
}

func (s *MeanReversion) Type() StrategyType {
	return StrategyTypeMeanReversion
}

func (s *MeanReversion) Config() MeanReversionConfig {
	return s.config
}

func (s *MeanReversion) WarmupPeriod() int {
	return s.config.Window + 1
}

func (s *MeanReversion) GenerateSignals(price *panel.Panel) (*panel.Panel, error) {
	if err := validatePrice(s.Name(), price); err != nil {
		return nil, err
	}

	mean, err := s.mean.Compute(price)
	if err != nil {
		return nil, err
	}

	std, err := s.std.Compute(price)
	if err != nil {
		return nil, err
	}

	mean = indicator.Shift(mean, 1)
	std = indicator.Shift(std, 1)

	signals := newRawSignals(price)
	signals.assignWhere(func(t, i int) bool {
		return price.At(t, i) < mean.At(t, i)-std.At(t, i)
	}, s.config.Amount)
	signals.assignWhere(func(t, i int) bool {
		return price.At(t, i) > mean.At(t, i)+std.At(t, i)
	}, -s.config.Amount)

	return signals.finalize()
}
