package marketdata

import (
	"testing"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimespan(t *testing.T) {
	tests := []struct {
		name       string
		multiplier int
		timespan   models.Timespan
	}{
		{name: "1m", multiplier: 1, timespan: models.Minute},
		{name: "15m", multiplier: 15, timespan: models.Minute},
		{name: "4h", multiplier: 4, timespan: models.Hour},
		{name: "1d", multiplier: 1, timespan: models.Day},
		{name: "1w", multiplier: 1, timespan: models.Week},
		{name: "1M", multiplier: 1, timespan: models.Month},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timespan, err := ParseTimespan(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.multiplier, timespan.Multiplier())
			assert.Equal(t, tt.timespan, timespan.Timespan())
		})
	}

	_, err := ParseTimespan("2d")
	assert.Error(t, err)
}
