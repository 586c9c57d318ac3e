package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/rxtech-lab/knightrade/internal/backtest/engine"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/strategy"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StrategyRun is the outcome of one strategy in RunStrategies.
type StrategyRun struct {
	Strategy   string
	Result     engine.Result
	Position   *panel.Panel
	Price      *panel.Panel
	Statistics types.BacktestStats
}

// RunStrategies backtests every generator against the same price panel, one
// engine per strategy, at most GOMAXPROCS at a time. Runs are returned in the
// order of generators. The first failure cancels the strategies that have not
// started yet.
func RunStrategies(
	ctx context.Context,
	price *panel.Panel,
	generators []strategy.SignalGenerator,
	config BacktestEngineV1Config,
	callbacks engine.LifecycleCallbacks,
	opts ...Option,
) (runs []StrategyRun, err error) {
	log := newBacktestEngineV1(config, opts...).log

	var mu sync.Mutex

	defer func() {
		if callbacks.OnBacktestEnd != nil {
			mu.Lock()
			(*callbacks.OnBacktestEnd)(err)
			mu.Unlock()
		}
	}()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := validatePricePanel(price); err != nil {
		return nil, err
	}

	if err := checkStrategyNames(generators); err != nil {
		return nil, err
	}

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(len(generators), price.NumTimes(), price.NumInstruments()); err != nil {
			return nil, err
		}
	}

	log.Info("Backtest started",
		zap.Int("strategies", len(generators)),
		zap.Int("times", price.NumTimes()),
		zap.Int("instruments", price.NumInstruments()),
	)

	runs = make([]StrategyRun, len(generators))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for index, generator := range generators {
		index, generator := index, generator
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			if callbacks.OnStrategyStart != nil {
				mu.Lock()
				err := (*callbacks.OnStrategyStart)(index, generator.Name(), len(generators))
				mu.Unlock()

				if err != nil {
					return err
				}
			}

			run, err := runStrategy(generator, price, config, opts...)

			if callbacks.OnStrategyEnd != nil {
				mu.Lock()
				(*callbacks.OnStrategyEnd)(index, generator.Name(), err)
				mu.Unlock()
			}

			if err != nil {
				log.Error("Strategy failed",
					zap.String("strategy", generator.Name()),
					zap.Error(err),
				)

				return err
			}

			runs[index] = run

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	log.Info("Backtest finished", zap.Int("strategies", len(generators)))

	return runs, nil
}

func runStrategy(generator strategy.SignalGenerator, price *panel.Panel, config BacktestEngineV1Config, opts ...Option) (StrategyRun, error) {
	backtest, err := NewBacktestEngineV1WithStrategy(generator, price, config, opts...)
	if err != nil {
		return StrategyRun{}, err
	}

	result, err := backtest.Run()
	if err != nil {
		return StrategyRun{}, err
	}

	stats, err := backtest.Statistics()
	if err != nil {
		return StrategyRun{}, err
	}

	return StrategyRun{
		Strategy:   backtest.StrategyName(),
		Result:     result,
		Position:   backtest.Position(),
		Price:      backtest.Price(),
		Statistics: stats,
	}, nil
}

func checkStrategyNames(generators []strategy.SignalGenerator) error {
	seen := make(map[string]struct{}, len(generators))

	for index, generator := range generators {
		if generator == nil {
			return errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration, "signal generator %d is nil", index)
		}

		if _, exists := seen[generator.Name()]; exists {
			return errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration,
				"strategy name %q is used twice", generator.Name())
		}

		seen[generator.Name()] = struct{}{}
	}

	return nil
}

// BuildStrategies creates the generators listed in config.
func BuildStrategies(registry strategy.StrategyRegistry, config BacktestEngineV1Config, log *logger.Logger) ([]strategy.SignalGenerator, error) {
	log = logger.OrNop(log)
	generators := make([]strategy.SignalGenerator, 0, len(config.Strategies))

	for _, definition := range config.Strategies {
		generator, err := registry.Build(definition)
		if err != nil {
			return nil, err
		}

		log.Debug("Strategy loaded",
			zap.String("strategy", generator.Name()),
			zap.String("type", string(generator.Type())),
		)

		generators = append(generators, generator)
	}

	return generators, nil
}
