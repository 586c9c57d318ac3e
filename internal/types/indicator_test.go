package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestIndicatorTypeConstants() {
	suite.Equal(IndicatorType("ma"), IndicatorTypeMA)
	suite.Equal(IndicatorType("std_dev"), IndicatorTypeStdDev)
	suite.Equal(IndicatorType("momentum"), IndicatorTypeMomentum)
	suite.Equal(IndicatorType("rsi"), IndicatorTypeRSI)
	suite.Equal(IndicatorType("bollinger_bands"), IndicatorTypeBollingerBands)
}
