package engine

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/internal/strategy"
	"github.com/rxtech-lab/knightrade/internal/version"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultInitialCapital is the cash a backtest starts with unless configured otherwise.
const DefaultInitialCapital = 1_000_000

type BacktestEngineV1Config struct {
	Version          string                     `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Version,description=Engine version the config was written for"`
	InitialCapital   float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting cash of the backtest,minimum=0,default=1000000" validate:"gte=0"`
	StartTime        optional.Option[time.Time] `yaml:"start_time,omitempty" json:"start_time" jsonschema:"title=Start Time,description=Optional first timestamp of the evaluated window"`
	EndTime          optional.Option[time.Time] `yaml:"end_time,omitempty" json:"end_time" jsonschema:"title=End Time,description=Optional last timestamp of the evaluated window"`
	DecimalPrecision int                        `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Decimal Precision,description=Decimal places kept in the statistics,minimum=0,maximum=16,default=2" validate:"gte=0,lte=16"`
	Strategies       []strategy.Definition      `yaml:"strategies,omitempty" json:"strategies" jsonschema:"title=Strategies,description=Strategies to backtest against the same prices" validate:"dive"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Fields missing from the document keep their current value.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		Version          string                `yaml:"version"`
		InitialCapital   float64               `yaml:"initial_capital"`
		StartTime        *time.Time            `yaml:"start_time"`
		EndTime          *time.Time            `yaml:"end_time"`
		DecimalPrecision int                   `yaml:"decimal_precision"`
		Strategies       []strategy.Definition `yaml:"strategies"`
	}

	config := Config{
		Version:          c.Version,
		InitialCapital:   c.InitialCapital,
		StartTime:        nil,
		EndTime:          nil,
		DecimalPrecision: c.DecimalPrecision,
		Strategies:       c.Strategies,
	}

	if err := unmarshal(&config); err != nil {
		return err
	}

	c.Version = config.Version
	c.InitialCapital = config.InitialCapital
	c.DecimalPrecision = config.DecimalPrecision
	c.Strategies = config.Strategies

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the field constraints, the time window and the config version.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest engine config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.StartTime.Unwrap().After(c.EndTime.Unwrap()) {
		return errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration,
			"start_time %s is after end_time %s",
			c.StartTime.Unwrap().Format(time.RFC3339), c.EndTime.Unwrap().Format(time.RFC3339))
	}

	if c.Version != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), c.Version); err != nil {
			return err
		}
	}

	names := make(map[string]struct{}, len(c.Strategies))

	for _, definition := range c.Strategies {
		name := definition.Name
		if name == "" {
			name = string(definition.Type)
		}

		if _, exists := names[name]; exists {
			return errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration,
				"strategy name %q is used twice, set a unique name", name)
		}

		names[name] = struct{}{}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if t == reflect.TypeOf(strategy.StrategyType("")) {
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{
						strategy.StrategyTypeMovingAverageCrossover,
						strategy.StrategyTypeMomentum,
						strategy.StrategyTypeMeanReversion,
						strategy.StrategyTypeBollingerBands,
						strategy.StrategyTypeRSI,
					},
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// LoadConfig parses a YAML document over DefaultConfig and validates the result.
func LoadConfig(content []byte) (BacktestEngineV1Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(content, &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest engine config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (BacktestEngineV1Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return BacktestEngineV1Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return LoadConfig(content)
}

func TestConfig(startTime time.Time, endTime time.Time, initialCapital float64) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Version:          "",
		InitialCapital:   initialCapital,
		StartTime:        optional.Some(startTime),
		EndTime:          optional.Some(endTime),
		DecimalPrecision: 2,
		Strategies:       nil,
	}
}

// DefaultConfig returns the configuration used when a field is not set.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Version:          version.GetVersion(),
		InitialCapital:   DefaultInitialCapital,
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
		DecimalPrecision: 2,
		Strategies:       nil,
	}
}

// EmptyConfig returns a BacktestEngineV1Config with zero values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Version:          "",
		InitialCapital:   0,
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
		DecimalPrecision: 0,
		Strategies:       nil,
	}
}
