package engine

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/knightrade/internal/backtest/engine"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/shopspring/decimal"
)

// Drawdown returns portfolio[t] / max(portfolio[0..t]) - 1 for every row.
func Drawdown(portfolio []float64) []float64 {
	drawdown := make([]float64, len(portfolio))
	peak := 0.0

	for t, value := range portfolio {
		if t == 0 || value > peak {
			peak = value
		}

		if peak == 0 {
			drawdown[t] = 0

			continue
		}

		drawdown[t] = value/peak - 1
	}

	return drawdown
}

// countTrades counts the cells where the target position changes, the opening
// row included.
func (b *BacktestEngineV1) countTrades() int {
	trades := 0

	for i := 0; i < b.position.NumInstruments(); i++ {
		previous := 0.0

		for t := 0; t < b.position.NumTimes(); t++ {
			current := b.position.At(t, i)
			if current != previous {
				trades++
			}

			previous = current
		}
	}

	return trades
}

// Statistics summarises the last run, running the backtest first when needed.
func (b *BacktestEngineV1) Statistics() (types.BacktestStats, error) {
	var result engine.Result

	if b.result.IsSome() {
		result = b.result.Unwrap()
	} else {
		var err error

		result, err = b.Run()
		if err != nil {
			return types.BacktestStats{}, err
		}
	}

	stats := types.BacktestStats{
		ID:             uuid.New().String(),
		Timestamp:      time.Now(),
		Strategy:       b.strategy,
		Instruments:    b.price.Instruments(),
		InitialValue:   b.round(b.config.InitialCapital),
		FinalValue:     b.round(b.config.InitialCapital),
		FinalCash:      b.round(b.config.InitialCapital),
		NumberOfTrades: b.countTrades(),
	}

	times := b.price.Times()
	if len(times) > 0 {
		stats.StartTime = times[0]
		stats.EndTime = times[len(times)-1]
	}

	if finalValue, ok := result.FinalPortfolio(); ok {
		stats.FinalValue = b.round(finalValue)

		if b.config.InitialCapital != 0 {
			stats.TotalReturn = b.round(finalValue/b.config.InitialCapital - 1)
		}
	}

	if finalCash, ok := result.FinalCash(); ok {
		stats.FinalCash = b.round(finalCash)
	}

	if result.Portfolio != nil && result.Portfolio.NumInstruments() > 0 {
		maxDrawdown := 0.0
		for _, value := range Drawdown(result.Portfolio.Series(0)) {
			if value < maxDrawdown {
				maxDrawdown = value
			}
		}

		stats.MaxDrawdown = b.round(maxDrawdown)
	}

	return stats, nil
}

func (b *BacktestEngineV1) round(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}

	//nolint:gosec // DecimalPrecision is validated to [0, 16]
	return decimal.NewFromFloat(value).Round(int32(b.config.DecimalPrecision)).InexactFloat64()
}
