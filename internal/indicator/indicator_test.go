package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
	price *panel.Panel
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) SetupTest() {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	times := make([]time.Time, 5)
	for i := range times {
		times[i] = start.AddDate(0, 0, i)
	}

	price, err := panel.NewTimeOriented(times, []string{"AAPL", "MSFT"}, [][]float64{
		{1, 10},
		{2, 10},
		{3, 10},
		{2, 10},
		{1, 10},
	})
	suite.Require().NoError(err)
	suite.price = price
}

func (suite *IndicatorTestSuite) TestConstructorsRejectNonPositivePeriod() {
	_, err := NewMA(0)
	suite.True(errors.IsConfigurationError(err))
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(err))
	suite.Contains(err.Error(), "got 0")

	_, err = NewStdDev(-1)
	suite.True(errors.IsConfigurationError(err))

	_, err = NewMomentum(0)
	suite.True(errors.IsConfigurationError(err))

	_, err = NewRSI(0)
	suite.True(errors.IsConfigurationError(err))

	_, err = NewBollingerBands(0, 2)
	suite.True(errors.IsConfigurationError(err))

	_, err = NewBollingerBands(5, -1)
	suite.Equal(errors.ErrCodeInvalidThreshold, errors.GetCode(err))
}

func (suite *IndicatorTestSuite) TestNamesAndPeriods() {
	ma, _ := NewMA(3)
	std, _ := NewStdDev(4)
	momentum, _ := NewMomentum(5)
	rsi, _ := NewRSI(14)
	bb, _ := NewBollingerBands(20, 2)

	indicators := []Indicator{ma, std, momentum, rsi, bb}
	names := []types.IndicatorType{
		types.IndicatorTypeMA,
		types.IndicatorTypeStdDev,
		types.IndicatorTypeMomentum,
		types.IndicatorTypeRSI,
		types.IndicatorTypeBollingerBands,
	}
	periods := []int{3, 4, 5, 14, 20}

	for i, ind := range indicators {
		suite.Equal(names[i], ind.Name())
		suite.Equal(periods[i], ind.Period())
	}
}

func (suite *IndicatorTestSuite) TestComputeKeepsShape() {
	ma, _ := NewMA(2)
	std, _ := NewStdDev(2)
	momentum, _ := NewMomentum(1)
	rsi, _ := NewRSI(2)
	bb, _ := NewBollingerBands(2, 1)

	for _, ind := range []Indicator{ma, std, momentum, rsi, bb} {
		out, err := ind.Compute(suite.price)
		suite.Require().NoError(err)
		suite.NoError(panel.Align(suite.price, out), string(ind.Name()))
		suite.True(math.IsNaN(out.At(0, 0)), string(ind.Name()))
	}
}

func (suite *IndicatorTestSuite) TestComputeRejectsNilPanel() {
	ma, _ := NewMA(2)
	_, err := ma.Compute(nil)
	suite.True(errors.IsShapeError(err))

	bb, _ := NewBollingerBands(2, 1)
	_, _, err = bb.Bands(nil)
	suite.True(errors.IsShapeError(err))
}

func (suite *IndicatorTestSuite) TestMAValues() {
	ma, _ := NewMA(2)
	out, err := ma.Compute(suite.price)
	suite.Require().NoError(err)

	suite.Equal(1.5, out.At(1, 0))
	suite.Equal(2.5, out.At(2, 0))
	suite.Equal(10.0, out.At(4, 1))
}

func (suite *IndicatorTestSuite) TestRSIValues() {
	rsi, _ := NewRSI(2)
	out, err := rsi.Compute(suite.price)
	suite.Require().NoError(err)

	suite.Equal(100.0, out.At(1, 0))
	suite.Equal(50.0, out.At(3, 0))
	suite.Equal(0.0, out.At(4, 0))
	// a flat instrument never has an RSI
	suite.True(math.IsNaN(out.At(4, 1)))
}

func (suite *IndicatorTestSuite) TestBollingerBands() {
	bb, _ := NewBollingerBands(2, 2)

	upper, lower, err := bb.Bands(suite.price)
	suite.Require().NoError(err)

	suite.InDelta(1.5+2*math.Sqrt(0.5), upper.At(1, 0), 1e-9)
	suite.InDelta(1.5-2*math.Sqrt(0.5), lower.At(1, 0), 1e-9)
	suite.Equal(10.0, upper.At(4, 1))
	suite.Equal(10.0, lower.At(4, 1))

	middle, err := bb.Compute(suite.price)
	suite.Require().NoError(err)
	suite.Equal(1.5, middle.At(1, 0))
}

func (suite *IndicatorTestSuite) TestShift() {
	shifted := Shift(suite.price, 1)
	suite.NoError(panel.Align(suite.price, shifted))
	suite.True(math.IsNaN(shifted.At(0, 0)))
	suite.Equal(suite.price.At(2, 0), shifted.At(3, 0))

	// the input stays untouched
	suite.Equal(1.0, suite.price.At(0, 0))
}

func (suite *IndicatorTestSuite) TestComputeOnInstrumentOrientedPanel() {
	ma, _ := NewMA(2)
	out, err := ma.Compute(suite.price.ToInstrumentOriented())
	suite.Require().NoError(err)

	suite.Equal(panel.InstrumentOriented, out.Orientation())
	suite.Equal(2.5, out.At(2, 0))
}
