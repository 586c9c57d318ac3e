package strategy

import (
	"encoding/json"
	"testing"

	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsSchema(t *testing.T) {
	tests := []struct {
		strategyType StrategyType
		properties   []string
	}{
		{strategyType: StrategyTypeMovingAverageCrossover, properties: []string{"short_window", "long_window", "amount"}},
		{strategyType: StrategyTypeMomentum, properties: []string{"window", "amount"}},
		{strategyType: StrategyTypeMeanReversion, properties: []string{"window", "amount"}},
		{strategyType: StrategyTypeBollingerBands, properties: []string{"window", "num_std_dev", "amount"}},
		{strategyType: StrategyTypeRSI, properties: []string{"window", "overbought", "oversold", "amount", "lag_rsi"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategyType), func(t *testing.T) {
			schema, err := ParamsSchema(tt.strategyType)
			require.NoError(t, err)

			var decoded struct {
				Properties map[string]any `json:"properties"`
			}

			require.NoError(t, json.Unmarshal([]byte(schema), &decoded))

			for _, property := range tt.properties {
				assert.Contains(t, decoded.Properties, property)
			}
		})
	}

	_, err := ParamsSchema(StrategyTypeCustom)
	assert.Equal(t, errors.ErrCodeUnsupportedStrategy, errors.GetCode(err))
}
