package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

// UtilsTestSuite is a test suite for utils package
type UtilsTestSuite struct {
	suite.Suite
}

// TestUtilsSuite runs the test suite
func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestGetResultFolder() {
	tests := []struct {
		name          string
		strategyName  string
		resultsFolder string
		startTime     optional.Option[time.Time]
		endTime       optional.Option[time.Time]
		expectedPath  string
	}{
		{
			name:          "Basic case without time range",
			strategyName:  "momentum",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/momentum",
		},
		{
			name:          "Case with time range",
			strategyName:  "momentum",
			resultsFolder: "/results",
			startTime:     optional.Some(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			endTime:       optional.Some(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
			expectedPath:  "/results/momentum/20230101_20231231",
		},
		{
			name:          "Case with only start time",
			strategyName:  "rsi",
			resultsFolder: "/results",
			startTime:     optional.Some(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/rsi/20230101_all",
		},
		{
			name:          "Case with only end time",
			strategyName:  "rsi",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.Some(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
			expectedPath:  "/results/rsi/all_20231231",
		},
		{
			name:          "Strategy name with separators",
			strategyName:  "team/fast:rsi",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/team_fast_rsi",
		},
		{
			name:          "Empty strategy name",
			strategyName:  "  ",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/unnamed",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			config := DefaultConfig()
			config.StartTime = tc.startTime
			config.EndTime = tc.endTime

			result := getResultFolder(tc.resultsFolder, tc.strategyName, config)
			suite.Equal(filepath.FromSlash(tc.expectedPath), result)
		})
	}
}
