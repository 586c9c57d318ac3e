package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/internal/backtest/engine"
	"github.com/rxtech-lab/knightrade/internal/datasource"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/mocks"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testConfig = `
initial_capital: 10000
decimal_precision: 2
strategies:
  - type: momentum
    name: fast_momentum
    params:
      window: 2
  - type: moving_average_crossover
    params:
      short_window: 3
      long_window: 10
`

type BacktestCmdTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	source     *mocks.MockDataSource
	tempDir    string
	configPath string
}

func TestBacktestCmdSuite(t *testing.T) {
	suite.Run(t, new(BacktestCmdTestSuite))
}

func (suite *BacktestCmdTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.source = mocks.NewMockDataSource(suite.ctrl)
	suite.tempDir = suite.T().TempDir()
	suite.configPath = filepath.Join(suite.tempDir, "config.yaml")

	suite.Require().NoError(os.WriteFile(suite.configPath, []byte(testConfig), 0644))
}

func (suite *BacktestCmdTestSuite) options() backtestOptions {
	return backtestOptions{
		DataPath:      "bars.parquet",
		ConfigPath:    suite.configPath,
		ResultsFolder: filepath.Join(suite.tempDir, "results"),
		Field:         "close",
		Interval:      "",
	}
}

func (suite *BacktestCmdTestSuite) TestRunBacktest() {
	price, err := mocks.NewDataGenerator(42).GeneratePricePanel([]string{"AAPL", "MSFT"}, mocks.DefaultConfig(), types.PriceFieldClose)
	suite.Require().NoError(err)

	suite.source.EXPECT().Initialize("bars.parquet").Return(nil)
	suite.source.EXPECT().
		LoadPanel(types.PriceFieldClose, gomock.Any(), gomock.Any(), optional.Some(datasource.Interval1h)).
		Return(price, nil)

	options := suite.options()
	options.Interval = "1h"

	progress := newProgressReporter(io.Discard)

	output, err := runBacktest(context.Background(), suite.source, options, progress.callbacks(), nil)
	suite.Require().NoError(err)

	suite.Require().Len(output.Runs, 2)
	suite.Equal("fast_momentum", output.Runs[0].Strategy)
	suite.Equal("moving_average_crossover", output.Runs[1].Strategy)
	suite.Equal(filepath.Join(options.ResultsFolder, "fast_momentum"), output.Folders[0])

	for index, run := range output.Runs {
		suite.Equal("bars.parquet", run.Statistics.DataPath)
		suite.Equal(10000.0, run.Statistics.InitialValue)
		suite.FileExists(filepath.Join(output.Folders[index], "equity.parquet"))
		suite.FileExists(filepath.Join(output.Folders[index], "positions.parquet"))

		stats, err := types.ReadBacktestStats(filepath.Join(output.Folders[index], "stats.yaml"))
		suite.Require().NoError(err)
		suite.Equal("bars.parquet", stats[0].DataPath)
	}

	suite.Require().NotNil(progress.bar)
	suite.Equal(int64(2), progress.bar.State().CurrentNum)

	summary := renderSummary(output)
	suite.Contains(summary, "fast_momentum")
	suite.Contains(summary, "moving_average_crossover")
	suite.Contains(summary, output.Folders[1])
}

func (suite *BacktestCmdTestSuite) TestRunBacktestErrors() {
	tests := []struct {
		name    string
		mutate  func(*backtestOptions)
		setup   func()
		checkFn func(error)
	}{
		{
			name:   "missing config",
			mutate: func(o *backtestOptions) { o.ConfigPath = filepath.Join(suite.tempDir, "missing.yaml") },
			checkFn: func(err error) {
				suite.True(errors.IsConfigurationError(err))
			},
		},
		{
			name:   "unknown field",
			mutate: func(o *backtestOptions) { o.Field = "vwap" },
			checkFn: func(err error) {
				suite.Equal(errors.ErrCodeInvalidField, errors.GetCode(err))
			},
		},
		{
			name:   "unknown interval",
			mutate: func(o *backtestOptions) { o.Interval = "2d" },
			checkFn: func(err error) {
				suite.True(errors.IsConfigurationError(err))
			},
		},
		{
			name: "unreadable data",
			setup: func() {
				suite.source.EXPECT().Initialize(gomock.Any()).
					Return(errors.New(errors.ErrCodeDataSourceUnavailable, "no such file"))
			},
			checkFn: func(err error) {
				suite.Equal(errors.ErrCodeDataSourceUnavailable, errors.GetCode(err))
			},
		},
		{
			name: "no data",
			setup: func() {
				suite.source.EXPECT().Initialize(gomock.Any()).Return(nil)
				suite.source.EXPECT().LoadPanel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New(errors.ErrCodeDataNotFound, "no market data"))
			},
			checkFn: func(err error) {
				suite.Equal(errors.ErrCodeDataNotFound, errors.GetCode(err))
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			options := suite.options()
			if tt.mutate != nil {
				tt.mutate(&options)
			}

			if tt.setup != nil {
				tt.setup()
			}

			_, err := runBacktest(context.Background(), suite.source, options, engine.LifecycleCallbacks{}, nil)
			suite.Require().Error(err)
			tt.checkFn(err)
		})
	}
}

func (suite *BacktestCmdTestSuite) TestFormatPercent() {
	suite.Equal("+1.50%", formatPercent(0.015))
	suite.Equal("-20.00%", formatPercent(-0.2))
	suite.Equal(fmt.Sprintf("%+.2f%%", 0.0), formatPercent(0))
}
