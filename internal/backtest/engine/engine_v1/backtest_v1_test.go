package engine

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	engine_types "github.com/rxtech-lab/knightrade/internal/backtest/engine"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/strategy"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/mocks"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func testTimes(n int) []time.Time {
	times := make([]time.Time, n)
	for t := range times {
		times[t] = testStart.AddDate(0, 0, t)
	}

	return times
}

// columns builds a TimeOriented panel from one series per instrument named A, B, ...
func columns(t *testing.T, series ...[]float64) *panel.Panel {
	t.Helper()

	names := make([]string, len(series))
	for i := range series {
		names[i] = string(rune('A' + i))
	}

	rows := make([][]float64, len(series[0]))
	for r := range rows {
		rows[r] = make([]float64, len(series))
		for i := range series {
			rows[r][i] = series[i][r]
		}
	}

	p, err := panel.NewTimeOriented(testTimes(len(rows)), names, rows)
	require.NoError(t, err)

	return p
}

func testEngineConfig(initialCapital float64) BacktestEngineV1Config {
	config := EmptyConfig()
	config.InitialCapital = initialCapital
	config.DecimalPrecision = 4

	return config
}

func TestBacktestEngineV1_Run(t *testing.T) {
	t.Run("Buy, hold and sell one share", func(t *testing.T) {
		price := columns(t, []float64{100, 102, 101})
		position := columns(t, []float64{1, 1, 0})

		backtest, err := NewBacktestEngineV1(price, position, testEngineConfig(1000))
		require.NoError(t, err)

		result, err := backtest.Run()
		require.NoError(t, err)

		assert.Equal(t, []float64{900, 900, 1001}, result.Cash.Series(0))
		assert.Equal(t, []float64{1000, 1002, 1001}, result.Portfolio.Series(0))
		assert.Equal(t, []string{engine_types.PortfolioColumn}, result.Portfolio.Instruments())
		assert.Equal(t, []string{engine_types.CashColumn}, result.Cash.Instruments())
		assert.Equal(t, price.Times(), result.Portfolio.Times())

		final, ok := result.FinalPortfolio()
		assert.True(t, ok)
		assert.Equal(t, 1001.0, final)
	})

	t.Run("Opening position is traded on the first row", func(t *testing.T) {
		price := columns(t, []float64{50, 55}, []float64{10, 10})
		position := columns(t, []float64{2, 2}, []float64{-3, 0})

		backtest, err := NewBacktestEngineV1(price, position, testEngineConfig(100))
		require.NoError(t, err)

		result, err := backtest.Run()
		require.NoError(t, err)

		// 100 - 2*50 + 3*10
		assert.Equal(t, 30.0, result.Cash.At(0, 0))
		assert.Equal(t, 100.0, result.Portfolio.At(0, 0))
		// buying back the short costs 30
		assert.Equal(t, 0.0, result.Cash.At(1, 0))
		assert.Equal(t, 110.0, result.Portfolio.At(1, 0))
	})

	t.Run("Portfolio changes only by the mark to market of held positions", func(t *testing.T) {
		config := mocks.DefaultConfig()
		config.Count = 60

		price, err := mocks.NewDataGenerator(42).GeneratePricePanel([]string{"AAPL", "MSFT", "GOOG"}, config, types.PriceFieldClose)
		require.NoError(t, err)

		position := price.Map(func(series []float64) []float64 {
			out := make([]float64, len(series))
			for row := range out {
				out[row] = float64((row*7)%5 - 2)
			}

			return out
		})

		backtest, err := NewBacktestEngineV1(price, position, testEngineConfig(10_000))
		require.NoError(t, err)

		result, err := backtest.Run()
		require.NoError(t, err)

		assert.InDelta(t, 10_000, result.Portfolio.At(0, 0), 1e-9)

		for row := 1; row < price.NumTimes(); row++ {
			expected := 0.0
			for i := 0; i < price.NumInstruments(); i++ {
				expected += position.At(row-1, i) * (price.At(row, i) - price.At(row-1, i))
			}

			assert.InDelta(t, expected, result.Portfolio.At(row, 0)-result.Portfolio.At(row-1, 0), 1e-6, "row %d", row)
		}
	})

	t.Run("Undefined prices contribute nothing", func(t *testing.T) {
		price := columns(t, []float64{100, 102, 101}, []float64{math.NaN(), 10, 10})
		position := columns(t, []float64{1, 1, 0}, []float64{0, 0, 0})

		backtest, err := NewBacktestEngineV1(price, position, testEngineConfig(1000))
		require.NoError(t, err)

		result, err := backtest.Run()
		require.NoError(t, err)

		assert.Equal(t, []float64{1000, 1002, 1001}, result.Portfolio.Series(0))
	})

	t.Run("Repeated runs return the same result and leave inputs untouched", func(t *testing.T) {
		price := columns(t, []float64{100, 102, 101})
		position := columns(t, []float64{1, 1, 0})
		priceBefore := price.Rows()
		positionBefore := position.Rows()

		backtest, err := NewBacktestEngineV1(price, position, testEngineConfig(1000))
		require.NoError(t, err)
		assert.True(t, backtest.Result().IsNone())

		first, err := backtest.Run()
		require.NoError(t, err)
		second, err := backtest.Run()
		require.NoError(t, err)

		assert.True(t, panel.Equal(first.Portfolio, second.Portfolio))
		assert.True(t, panel.Equal(first.Cash, second.Cash))
		assert.True(t, backtest.Result().IsSome())
		assert.Equal(t, priceBefore, price.Rows())
		assert.Equal(t, positionBefore, position.Rows())
	})

	t.Run("Empty panels produce empty results", func(t *testing.T) {
		price, err := panel.NewTimeOriented(nil, []string{"A"}, nil)
		require.NoError(t, err)

		backtest, err := NewBacktestEngineV1(price, price, testEngineConfig(1000))
		require.NoError(t, err)

		result, err := backtest.Run()
		require.NoError(t, err)

		assert.Equal(t, 0, result.Portfolio.NumTimes())

		_, ok := result.FinalPortfolio()
		assert.False(t, ok)
	})
}

func TestBacktestEngineV1_TimeWindow(t *testing.T) {
	price := columns(t, []float64{100, 102, 101})
	position := columns(t, []float64{1, 1, 0})

	config := testEngineConfig(1000)
	config.StartTime = optional.Some(testStart.AddDate(0, 0, 1))

	backtest, err := NewBacktestEngineV1(price, position, config)
	require.NoError(t, err)

	result, err := backtest.Run()
	require.NoError(t, err)

	// the first row of the window opens the position at 102
	assert.Equal(t, []float64{898, 999}, result.Cash.Series(0))
	assert.Equal(t, []float64{1000, 999}, result.Portfolio.Series(0))
	assert.Equal(t, 2, backtest.Price().NumTimes())
	assert.Equal(t, 2, backtest.Position().NumTimes())
}

func TestBacktestEngineV1_InvalidInput(t *testing.T) {
	price := columns(t, []float64{100, 102, 101})

	renamed, err := panel.NewTimeOriented(testTimes(3), []string{"Z"}, [][]float64{{1}, {1}, {0}})
	require.NoError(t, err)

	shorter := columns(t, []float64{1, 1})

	tests := []struct {
		name     string
		price    *panel.Panel
		position *panel.Panel
		config   BacktestEngineV1Config
		code     errors.ErrorCode
	}{
		{
			name:     "different instruments",
			price:    price,
			position: renamed,
			config:   testEngineConfig(1000),
			code:     errors.ErrCodeShapeMismatch,
		},
		{
			name:     "different length",
			price:    price,
			position: shorter,
			config:   testEngineConfig(1000),
			code:     errors.ErrCodeShapeMismatch,
		},
		{
			name:     "instrument oriented price",
			price:    price.ToInstrumentOriented(),
			position: columns(t, []float64{1, 1, 0}).ToInstrumentOriented(),
			config:   testEngineConfig(1000),
			code:     errors.ErrCodeInvalidOrientation,
		},
		{
			name:     "undefined position",
			price:    price,
			position: columns(t, []float64{1, math.NaN(), 0}),
			config:   testEngineConfig(1000),
			code:     errors.ErrCodeUndefinedPosition,
		},
		{
			name:     "nil position",
			price:    price,
			position: nil,
			config:   testEngineConfig(1000),
			code:     errors.ErrCodeShapeMismatch,
		},
		{
			name:     "nil price",
			price:    nil,
			position: price,
			config:   testEngineConfig(1000),
			code:     errors.ErrCodeShapeMismatch,
		},
		{
			name:     "negative capital",
			price:    price,
			position: columns(t, []float64{1, 1, 0}),
			config:   testEngineConfig(-1),
			code:     errors.ErrCodeInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backtest, err := NewBacktestEngineV1(tt.price, tt.position, tt.config)
			require.Error(t, err)
			assert.Nil(t, backtest)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestBacktestEngineV1WithStrategy(t *testing.T) {
	t.Run("Generator is invoked once on the full history", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		price := columns(t, []float64{100, 102, 101})
		position := columns(t, []float64{1, 1, 0})

		generator := mocks.NewMockSignalGenerator(ctrl)
		generator.EXPECT().Name().Return("mock").AnyTimes()
		generator.EXPECT().WarmupPeriod().Return(1).AnyTimes()
		generator.EXPECT().GenerateSignals(price).Return(position, nil).Times(1)

		config := testEngineConfig(1000)
		config.EndTime = optional.Some(testStart.AddDate(0, 0, 1))

		backtest, err := NewBacktestEngineV1WithStrategy(generator, price, config)
		require.NoError(t, err)
		assert.Equal(t, "mock", backtest.StrategyName())

		result, err := backtest.Run()
		require.NoError(t, err)
		assert.Equal(t, []float64{1000, 1002}, result.Portfolio.Series(0))
	})

	t.Run("Generator errors are returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		price := columns(t, []float64{100, 102, 101})

		generator := mocks.NewMockSignalGenerator(ctrl)
		generator.EXPECT().Name().Return("broken").AnyTimes()
		generator.EXPECT().WarmupPeriod().Return(0).AnyTimes()
		generator.EXPECT().GenerateSignals(gomock.Any()).
			Return(nil, errors.New(errors.ErrCodeStrategyRuntimeError, "boom"))

		_, err := NewBacktestEngineV1WithStrategy(generator, price, testEngineConfig(1000))
		assert.Equal(t, errors.ErrCodeStrategyRuntimeError, errors.GetCode(err))
	})

	t.Run("Short history is logged as a warning", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		log := &logger.Logger{Logger: zap.New(core)}

		generator, err := strategy.NewMomentum(strategy.DefaultMomentumConfig())
		require.NoError(t, err)

		price := columns(t, []float64{100, 102, 101})

		backtest, err := NewBacktestEngineV1WithStrategy(generator, price, testEngineConfig(1000), WithLogger(log))
		require.NoError(t, err)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, generator.Name(), entry.ContextMap()["strategy"])
		assert.Contains(t, fmt.Sprint(entry.ContextMap()["error"]), "insufficient history")

		// flat positions leave the capital untouched
		result, err := backtest.Run()
		require.NoError(t, err)
		assert.Equal(t, []float64{1000, 1000, 1000}, result.Portfolio.Series(0))
	})

	t.Run("Nil generator", func(t *testing.T) {
		_, err := NewBacktestEngineV1WithStrategy(nil, columns(t, []float64{1}), testEngineConfig(1000))
		assert.True(t, errors.IsConfigurationError(err))
	})
}

func TestBacktestEngineV1_MeanReversionOnConstantPrice(t *testing.T) {
	generator, err := strategy.NewMeanReversion(strategy.DefaultMeanReversionConfig())
	require.NoError(t, err)

	series := make([]float64, 40)
	for row := range series {
		series[row] = 0.1
	}

	backtest, err := NewBacktestEngineV1WithStrategy(generator, columns(t, series), testEngineConfig(1000))
	require.NoError(t, err)

	result, err := backtest.Run()
	require.NoError(t, err)

	for row := 0; row < len(series); row++ {
		assert.Equal(t, 0.0, backtest.Position().At(row, 0))
		assert.Equal(t, 1000.0, result.Portfolio.At(row, 0))
	}
}
