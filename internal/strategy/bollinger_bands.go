package strategy

import (
	"github.com/rxtech-lab/knightrade/internal/indicator"
	"github.com/rxtech-lab/knightrade/internal/panel"
)

// BollingerBandsConfig configures BollingerBands.
type BollingerBandsConfig struct {
	Window    int     `yaml:"window" json:"window" jsonschema:"title=Window,description=Observations in the middle band,minimum=1,default=20" validate:"gt=0"`
	NumStdDev float64 `yaml:"num_std_dev" json:"num_std_dev" jsonschema:"title=Band Width,description=Standard deviations between the middle and the outer bands,minimum=0,default=2" validate:"gte=0"`
	Amount    float64 `yaml:"amount" json:"amount" jsonschema:"title=Amount,description=Position size taken on a signal,exclusiveMinimum=0,default=1" validate:"gt=0"`
}

func DefaultBollingerBandsConfig() BollingerBandsConfig {
	return BollingerBandsConfig{
		Window:    20,
		NumStdDev: 2,
		Amount:    1,
	}
}

// BollingerBands buys under the lagged lower band and sells over the lagged upper band.
type BollingerBands struct {
	config BollingerBandsConfig
	bands  *indicator.BollingerBands
}

func NewBollingerBands(config BollingerBandsConfig) (*BollingerBands, error) {
	if err := validateConfig(StrategyTypeBollingerBands, config); err != nil {
		return nil, err
	}

	bands, err := indicator.NewBollingerBands(config.Window, config.NumStdDev)
	if err != nil {
		return nil, err
	}

	return &BollingerBands{
		config: config,
		bands:  bands,
	}, nil
}

func (s *BollingerBands) Name() string {
	return string(StrategyTypeBollingerBands)
}

func (s *BollingerBands) Type() StrategyType {
	return StrategyTypeBollingerBands
}

func (s *BollingerBands) Config() BollingerBandsConfig {
	return s.config
}

func (s *BollingerBands) WarmupPeriod() int {
	return s.config.Window + 1
}

func (s *BollingerBands) GenerateSignals(price *panel.Panel) (*panel.Panel, error) {
	if err := validatePrice(s.Name(), price); err != nil {
		return nil, err
	}

	upper, lower, err := s.bands.Bands(price)
	if err != nil {
		return nil, err
	}

	upper = indicator.Shift(upper, 1)
	lower = indicator.Shift(lower, 1)

	signals := newRawSignals(price)
	signals.assignWhere(func(t, i int) bool {
		return price.At(t, i) < lower.At(t, i)
	}, s.config.Amount)
	signals.assignWhere(func(t, i int) bool {
		return price.At(t, i) > upper.At(t, i)
	}, -s.config.Amount)

	return signals.finalize()
}
