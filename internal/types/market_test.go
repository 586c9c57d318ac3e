package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestMarketDataValue() {
	data := MarketData{
		Id:     "spy-1",
		Symbol: "SPY",
		Time:   time.Date(2023, 6, 15, 9, 30, 0, 0, time.UTC),
		Open:   450.0,
		High:   455.0,
		Low:    448.0,
		Close:  452.0,
		Volume: 5000000.0,
	}

	suite.Equal(450.0, data.Value(PriceFieldOpen))
	suite.Equal(455.0, data.Value(PriceFieldHigh))
	suite.Equal(448.0, data.Value(PriceFieldLow))
	suite.Equal(452.0, data.Value(PriceFieldClose))
	suite.Equal(5000000.0, data.Value(PriceFieldVolume))
}

func (suite *MarketTestSuite) TestParsePriceField() {
	for _, field := range AllPriceFields {
		parsed, err := ParsePriceField(string(field))
		suite.NoError(err)
		suite.Equal(field, parsed)
	}

	_, err := ParsePriceField("adj_close; DROP TABLE market_data")
	suite.Error(err)
	suite.Contains(err.Error(), "unknown price field")
}

func (suite *MarketTestSuite) TestMarketDataZeroValues() {
	data := MarketData{}

	suite.Empty(data.Id)
	suite.Empty(data.Symbol)
	suite.True(data.Time.IsZero())
	suite.Equal(0.0, data.Value(PriceFieldClose))
}
