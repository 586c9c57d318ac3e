package datasource

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPanel(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	records := []types.MarketData{
		{Symbol: "MSFT", Time: day.AddDate(0, 0, 1), Close: 21, Volume: 5},
		{Symbol: "AAPL", Time: day, Close: 10, Volume: 1},
		{Symbol: "AAPL", Time: day.AddDate(0, 0, 1), Close: 11, Volume: 2},
		{Symbol: "MSFT", Time: day.AddDate(0, 0, 2), Close: 22, Volume: 6},
	}

	price, err := BuildPanel(records, types.PriceFieldClose)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, price.Instruments())
	require.Equal(t, 3, price.NumTimes())
	assert.True(t, price.Times()[0].Equal(day))

	assert.Equal(t, 10.0, price.At(0, 0))
	assert.Equal(t, 11.0, price.At(1, 0))
	assert.True(t, math.IsNaN(price.At(2, 0)))
	assert.True(t, math.IsNaN(price.At(0, 1)))
	assert.Equal(t, 22.0, price.At(2, 1))

	volume, err := BuildPanel(records, types.PriceFieldVolume)
	require.NoError(t, err)
	assert.Equal(t, 5.0, volume.At(1, 1))
}

func TestBuildPanelErrors(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := BuildPanel(nil, "adjusted")
	assert.Equal(t, errors.ErrCodeInvalidField, errors.GetCode(err))

	_, err = BuildPanel([]types.MarketData{
		{Symbol: "AAPL", Time: day, Close: 1},
		{Symbol: "AAPL", Time: day, Close: 2},
	}, types.PriceFieldClose)
	assert.Equal(t, errors.ErrCodeDuplicateLabel, errors.GetCode(err))
}

func TestBuildPanelEmpty(t *testing.T) {
	price, err := BuildPanel(nil, types.PriceFieldClose)
	require.NoError(t, err)
	assert.Equal(t, 0, price.NumTimes())
	assert.Equal(t, 0, price.NumInstruments())
}

func TestParseInterval(t *testing.T) {
	interval, err := ParseInterval("4h")
	require.NoError(t, err)
	assert.Equal(t, Interval4h, interval)

	_, err = ParseInterval("1M")
	assert.True(t, errors.IsConfigurationError(err))
}

func TestReadFunction(t *testing.T) {
	assert.Equal(t, "read_csv_auto", readFunction("data/prices.CSV"))
	assert.Equal(t, "read_parquet", readFunction("data/prices.parquet"))
	assert.Equal(t, "'it''s.parquet'", quoteLiteral("it's.parquet"))
}
