package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// ToJSONSchema converts a struct to a JSON schema
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// ParamsSchema returns the JSON schema of the params block of a built-in strategy.
func ParamsSchema(strategyType StrategyType) (string, error) {
	switch strategyType {
	case StrategyTypeMovingAverageCrossover:
		return ToJSONSchema(DefaultMovingAverageCrossoverConfig())
	case StrategyTypeMomentum:
		return ToJSONSchema(DefaultMomentumConfig())
	case StrategyTypeMeanReversion:
		return ToJSONSchema(DefaultMeanReversionConfig())
	case StrategyTypeBollingerBands:
		return ToJSONSchema(DefaultBollingerBandsConfig())
	case StrategyTypeRSI:
		return ToJSONSchema(DefaultRSIConfig())
	default:
		return "", errors.NewConfigurationErrorf(errors.ErrCodeUnsupportedStrategy,
			"strategy %q has no params schema", strategyType)
	}
}
