package strategy

import (
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// SignalFunc computes raw positions from a price panel. It must return a panel
// aligned to price and must only look at data before each row it decides.
type SignalFunc func(price *panel.Panel) (*panel.Panel, error)

// Custom adapts a user supplied SignalFunc to SignalGenerator. Its output goes
// through the same fill policy as the built-in strategies.
type Custom struct {
	name   string
	fn     SignalFunc
	warmup int
}

func NewCustom(name string, fn SignalFunc) (*Custom, error) {
	if name == "" {
		return nil, errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration, "custom strategy needs a name")
	}

	if fn == nil {
		return nil, errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration,
			"custom strategy %s has no signal function", name)
	}

	return &Custom{
		name:   name,
		fn:     fn,
		warmup: 0,
	}, nil
}

// WithWarmupPeriod returns a copy of c reporting n rows of warm-up.
func (c *Custom) WithWarmupPeriod(n int) *Custom {
	copied := *c
	copied.warmup = max(n, 0)

	return &copied
}

func (c *Custom) Name() string {
	return c.name
}

func (c *Custom) Type() StrategyType {
	return StrategyTypeCustom
}

func (c *Custom) WarmupPeriod() int {
	return c.warmup
}

func (c *Custom) GenerateSignals(price *panel.Panel) (*panel.Panel, error) {
	if err := validatePrice(c.name, price); err != nil {
		return nil, err
	}

	raw, err := c.fn(price)
	if err != nil {
		if errors.GetCode(err) != errors.ErrCodeUnknown {
			return nil, err
		}

		return nil, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "custom strategy %s failed", c.name)
	}

	if err := panel.Align(price, raw); err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "custom strategy %s returned a misaligned panel", c.name)
	}

	return raw.Map(fillSignals), nil
}
