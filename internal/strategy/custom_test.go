package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

func (suite *StrategyTestSuite) TestCustomFillsUndefinedCells() {
	price := suite.pricePanel([]float64{1, 2, 3, 4, 5}, []float64{5, 4, 3, 2, 1})

	custom, err := NewCustom("sparse", func(price *panel.Panel) (*panel.Panel, error) {
		return panel.NewLike(price, [][]float64{
			{math.NaN(), 3, math.NaN(), -1, math.NaN()},
			{math.NaN(), math.NaN(), math.NaN(), math.NaN(), 2},
		})
	})
	suite.Require().NoError(err)

	signals, err := custom.GenerateSignals(price)
	suite.Require().NoError(err)
	suite.Equal([]float64{0, 3, 3, -1, -1}, signals.Series(0))
	suite.Equal([]float64{0, 0, 0, 0, 2}, signals.Series(1))

	suite.Equal("sparse", custom.Name())
	suite.Equal(StrategyTypeCustom, custom.Type())
	suite.Equal(0, custom.WarmupPeriod())
	suite.Equal(4, custom.WithWarmupPeriod(4).WarmupPeriod())
	suite.Equal(0, custom.WarmupPeriod())
}

func (suite *StrategyTestSuite) TestCustomWrapsRuntimeErrors() {
	cause := fmt.Errorf("model not loaded")

	custom, err := NewCustom("broken", func(_ *panel.Panel) (*panel.Panel, error) {
		return nil, cause
	})
	suite.Require().NoError(err)

	_, err = custom.GenerateSignals(suite.pricePanel([]float64{1, 2}))
	suite.Equal(errors.ErrCodeStrategyRuntimeError, errors.GetCode(err))
	suite.True(errors.Is(err, cause))
	suite.Contains(err.Error(), "broken")
}

func (suite *StrategyTestSuite) TestCustomRejectsMisalignedOutput() {
	custom, err := NewCustom("short", func(price *panel.Panel) (*panel.Panel, error) {
		return panel.NewSeries(price.Times()[:1], "A", []float64{1})
	})
	suite.Require().NoError(err)

	_, err = custom.GenerateSignals(suite.pricePanel([]float64{1, 2}))
	suite.True(errors.IsShapeError(err))

	shifted, err := NewCustom("shifted", func(price *panel.Panel) (*panel.Panel, error) {
		return panel.NewSeries([]time.Time{suite.start.Add(time.Hour), suite.start.AddDate(0, 0, 1)}, "A", []float64{1, 1})
	})
	suite.Require().NoError(err)

	_, err = shifted.GenerateSignals(suite.pricePanel([]float64{1, 2}))
	suite.True(errors.IsShapeError(err))
}

func (suite *StrategyTestSuite) TestNewCustomValidates() {
	_, err := NewCustom("", func(price *panel.Panel) (*panel.Panel, error) { return price, nil })
	suite.True(errors.IsConfigurationError(err))

	_, err = NewCustom("nil", nil)
	suite.True(errors.IsConfigurationError(err))
}
