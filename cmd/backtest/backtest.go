package main

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/knightrade/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/knightrade/internal/datasource"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/internal/strategy"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"go.uber.org/zap"
)

// backtestOptions are the command line inputs of one backtest.
type backtestOptions struct {
	DataPath      string
	ConfigPath    string
	ResultsFolder string
	Field         string
	Interval      string
}

// backtestOutput pairs every strategy run with the folder it was written to.
type backtestOutput struct {
	Runs    []engine_v1.StrategyRun
	Folders []string
}

// runBacktest loads the price panel from source, runs every configured
// strategy against it and writes the results below options.ResultsFolder.
func runBacktest(
	ctx context.Context,
	source datasource.DataSource,
	options backtestOptions,
	callbacks engine.LifecycleCallbacks,
	log *logger.Logger,
) (backtestOutput, error) {
	log = logger.OrNop(log)

	config, err := engine_v1.LoadConfigFile(options.ConfigPath)
	if err != nil {
		return backtestOutput{}, err
	}

	field, err := types.ParsePriceField(options.Field)
	if err != nil {
		return backtestOutput{}, errors.Wrap(errors.ErrCodeInvalidField, "invalid price field", err)
	}

	interval := optional.None[datasource.Interval]()

	if options.Interval != "" {
		parsed, err := datasource.ParseInterval(options.Interval)
		if err != nil {
			return backtestOutput{}, err
		}

		interval = optional.Some(parsed)
	}

	if err := source.Initialize(options.DataPath); err != nil {
		return backtestOutput{}, err
	}

	// the engine trims to StartTime and EndTime after generating signals, so
	// the history before StartTime still warms the strategies up
	price, err := source.LoadPanel(field, optional.None[time.Time](), optional.None[time.Time](), interval)
	if err != nil {
		return backtestOutput{}, err
	}

	log.Info("Price panel loaded",
		zap.String("data", options.DataPath),
		zap.String("field", string(field)),
		zap.Int("times", price.NumTimes()),
		zap.Strings("instruments", price.Instruments()),
	)

	generators, err := engine_v1.BuildStrategies(strategy.NewDefaultStrategyRegistry(), config, log)
	if err != nil {
		return backtestOutput{}, err
	}

	if len(generators) == 0 {
		return backtestOutput{}, errors.Newf(errors.ErrCodeInvalidConfiguration, "config %s lists no strategies", options.ConfigPath)
	}

	runs, err := engine_v1.RunStrategies(ctx, price, generators, config, callbacks, engine_v1.WithLogger(log))
	if err != nil {
		return backtestOutput{}, err
	}

	writer, err := engine_v1.NewResultWriter(log)
	if err != nil {
		return backtestOutput{}, err
	}

	defer writer.Close()

	output := backtestOutput{
		Runs:    runs,
		Folders: make([]string, 0, len(runs)),
	}

	for index := range output.Runs {
		output.Runs[index].Statistics.DataPath = options.DataPath

		folder, err := writer.Write(options.ResultsFolder, output.Runs[index], config)
		if err != nil {
			return backtestOutput{}, err
		}

		output.Folders = append(output.Folders, folder)
	}

	return output, nil
}
