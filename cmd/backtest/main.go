package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/knightrade/internal/datasource"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
)

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	level := zapcore.InfoLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer log.Sync() //nolint:errcheck

	source, err := datasource.NewDataSource("", log)
	if err != nil {
		return err
	}

	defer source.Close()

	progress := newProgressReporter(os.Stderr)

	output, err := runBacktest(ctx, source, backtestOptions{
		DataPath:      cmd.String("data"),
		ConfigPath:    cmd.String("config"),
		ResultsFolder: cmd.String("results"),
		Field:         cmd.String("field"),
		Interval:      cmd.String("interval"),
	}, progress.callbacks(), log)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	fmt.Fprint(os.Stdout, renderSummary(output))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Backtest the strategies of a config against historical market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Parquet or CSV file with time, symbol and OHLCV columns",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Backtest engine config file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Folder the results are written to",
				Value:   "results",
			},
			&cli.StringFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Bar field used as price, one of %v", types.AllPriceFields),
				Value:   string(types.PriceFieldClose),
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Resample bars to this interval (e.g. 1h, 1d) before backtesting",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug messages",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
