package strategy

import (
	"slices"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Factory builds a strategy from the params block of a Definition. params may be
// empty, in which case the variant's defaults apply.
type Factory func(params *yaml.Node) (SignalGenerator, error)

// Definition describes one configured strategy.
type Definition struct {
	Type StrategyType `yaml:"type" json:"type" jsonschema:"title=Type,description=Strategy variant" validate:"required"`
	// Name overrides the generator name, for runs with the same variant twice
	Name   string    `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"title=Name,description=Unique name of the strategy in a run"`
	Params yaml.Node `yaml:"params,omitempty" json:"-"`
}

// JSONSchemaExtend documents the free-form params block.
func (Definition) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Properties.Set("params", &jsonschema.Schema{
		Type:        "object",
		Title:       "Params",
		Description: "Variant specific parameters, see the config of each strategy",
	})
}

// StrategyRegistry maps strategy types to factories.
type StrategyRegistry interface {
	RegisterStrategy(strategyType StrategyType, factory Factory) error
	GetStrategy(strategyType StrategyType) (Factory, error)
	ListStrategies() []StrategyType
	RemoveStrategy(strategyType StrategyType) error
	Build(definition Definition) (SignalGenerator, error)
}

// StrategyRegistryV1 is a concurrency safe StrategyRegistry.
type StrategyRegistryV1 struct {
	factories map[StrategyType]Factory
	mu        sync.RWMutex
}

// NewStrategyRegistry creates an empty registry.
func NewStrategyRegistry() StrategyRegistry {
	return &StrategyRegistryV1{
		factories: make(map[StrategyType]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultStrategyRegistry creates a registry with every built-in variant.
func NewDefaultStrategyRegistry() StrategyRegistry {
	registry := &StrategyRegistryV1{
		factories: map[StrategyType]Factory{
			StrategyTypeMovingAverageCrossover: configFactory(DefaultMovingAverageCrossoverConfig, NewMovingAverageCrossover),
			StrategyTypeMomentum:               configFactory(DefaultMomentumConfig, NewMomentum),
			StrategyTypeMeanReversion:          configFactory(DefaultMeanReversionConfig, NewMeanReversion),
			StrategyTypeBollingerBands:         configFactory(DefaultBollingerBandsConfig, NewBollingerBands),
			StrategyTypeRSI:                    configFactory(DefaultRSIConfig, NewRSI),
		},
		mu: sync.RWMutex{},
	}

	return registry
}

// RegisterStrategy adds a factory to the registry.
func (r *StrategyRegistryV1) RegisterStrategy(strategyType StrategyType, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		return errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration,
			"strategy %s registered without a factory", strategyType)
	}

	if _, exists := r.factories[strategyType]; exists {
		return errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration,
			"strategy %s already registered", strategyType)
	}

	r.factories[strategyType] = factory

	return nil
}

// GetStrategy retrieves the factory of a strategy type.
func (r *StrategyRegistryV1) GetStrategy(strategyType StrategyType) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[strategyType]
	if !exists {
		return nil, errors.NewConfigurationErrorf(errors.ErrCodeUnsupportedStrategy,
			"strategy %q is not registered", strategyType)
	}

	return factory, nil
}

// ListStrategies returns the registered strategy types in lexical order.
func (r *StrategyRegistryV1) ListStrategies() []StrategyType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]StrategyType, 0, len(r.factories))
	for strategyType := range r.factories {
		types = append(types, strategyType)
	}

	slices.Sort(types)

	return types
}

// RemoveStrategy removes a strategy type from the registry.
func (r *StrategyRegistryV1) RemoveStrategy(strategyType StrategyType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[strategyType]; !exists {
		return errors.NewConfigurationErrorf(errors.ErrCodeUnsupportedStrategy,
			"strategy %q is not registered", strategyType)
	}

	delete(r.factories, strategyType)

	return nil
}

// Build creates the generator described by definition.
func (r *StrategyRegistryV1) Build(definition Definition) (SignalGenerator, error) {
	factory, err := r.GetStrategy(definition.Type)
	if err != nil {
		return nil, err
	}

	generator, err := factory(&definition.Params)
	if err != nil {
		return nil, err
	}

	if definition.Name == "" {
		return generator, nil
	}

	return &namedGenerator{
		SignalGenerator: generator,
		name:            definition.Name,
	}, nil
}

// configFactory decodes params over the defaults of a config and hands the
// result to the variant's constructor.
func configFactory[C any, S SignalGenerator](defaults func() C, build func(C) (S, error)) Factory {
	return func(params *yaml.Node) (SignalGenerator, error) {
		config := defaults()

		if params != nil && !params.IsZero() {
			if err := params.Decode(&config); err != nil {
				return nil, errors.NewConfigurationErrorf(errors.ErrCodeInvalidConfiguration,
					"cannot decode params: %v", err)
			}
		}

		generator, err := build(config)
		if err != nil {
			return nil, err
		}

		return generator, nil
	}
}

type namedGenerator struct {
	SignalGenerator
	name string
}

func (g *namedGenerator) Name() string {
	return g.name
}
