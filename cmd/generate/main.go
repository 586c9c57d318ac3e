package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	engine "github.com/rxtech-lab/knightrade/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/knightrade/internal/strategy"
	"gopkg.in/yaml.v2"
)

const (
	schemaName       = "backtest-engine-v1-config.json"
	sampleConfigName = "backtest-engine-v1-config.yaml"
)

func main() {
	config := engine.DefaultConfig()

	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", sampleConfigName)

	if err := validatePaths(schemaPath, sampleConfigPath); err != nil {
		log.Fatalf("Invalid output paths: %v", err)
	}

	if err := generateSchemaFile(config, schemaPath); err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	if err := generateParamsSchemas(filepath.Join("./config", "strategies")); err != nil {
		log.Fatalf("Failed to generate strategy schemas: %v", err)
	}

	if err := generateSampleConfig(config, sampleConfigPath, schemaName); err != nil {
		log.Fatalf("Failed to generate sample config: %v", err)
	}
}

func validatePaths(schemaPath string, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("schema name %q must have .json extension", name)
	}

	return nil
}

func getSchemaReference(name string) string {
	return "# yaml-language-server: $schema=" + name + "\n"
}

func generateSchemaFile(config engine.BacktestEngineV1Config, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateParamsSchemas writes <type>.json with the params schema of every
// built-in strategy into folder.
func generateParamsSchemas(folder string) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for _, strategyType := range strategy.NewDefaultStrategyRegistry().ListStrategies() {
		schema, err := strategy.ParamsSchema(strategyType)
		if err != nil {
			return fmt.Errorf("failed to generate %s schema: %w", strategyType, err)
		}

		path := filepath.Join(folder, string(strategyType)+".json")
		if err := os.WriteFile(path, []byte(schema), 0644); err != nil {
			return fmt.Errorf("failed to write schema to file: %w", err)
		}
	}

	return nil
}

// sampleConfig lays config out in file order, with one example of each
// built-in strategy. Params are written as plain maps since a yaml.Node only
// round trips through yaml.v3.
func sampleConfig(config engine.BacktestEngineV1Config) yaml.MapSlice {
	strategies := []yaml.MapSlice{
		{
			{Key: "type", Value: string(strategy.StrategyTypeMovingAverageCrossover)},
			{Key: "name", Value: "sma_20_50"},
			{Key: "params", Value: yaml.MapSlice{
				{Key: "short_window", Value: 20},
				{Key: "long_window", Value: 50},
				{Key: "amount", Value: 1},
			}},
		},
		{
			{Key: "type", Value: string(strategy.StrategyTypeMomentum)},
			{Key: "params", Value: yaml.MapSlice{{Key: "window", Value: 20}, {Key: "amount", Value: 1}}},
		},
		{
			{Key: "type", Value: string(strategy.StrategyTypeMeanReversion)},
			{Key: "params", Value: yaml.MapSlice{{Key: "window", Value: 20}, {Key: "amount", Value: 1}}},
		},
		{
			{Key: "type", Value: string(strategy.StrategyTypeBollingerBands)},
			{Key: "params", Value: yaml.MapSlice{
				{Key: "window", Value: 20},
				{Key: "num_std_dev", Value: 2},
				{Key: "amount", Value: 1},
			}},
		},
		{
			{Key: "type", Value: string(strategy.StrategyTypeRSI)},
			{Key: "params", Value: yaml.MapSlice{
				{Key: "window", Value: 14},
				{Key: "overbought", Value: 70},
				{Key: "oversold", Value: 30},
				{Key: "amount", Value: 1},
			}},
		},
	}

	sample := yaml.MapSlice{}
	if config.Version != "" {
		sample = append(sample, yaml.MapItem{Key: "version", Value: config.Version})
	}

	sample = append(sample,
		yaml.MapItem{Key: "initial_capital", Value: config.InitialCapital},
		yaml.MapItem{Key: "decimal_precision", Value: config.DecimalPrecision},
	)

	if start, err := config.StartTime.Take(); err == nil {
		sample = append(sample, yaml.MapItem{Key: "start_time", Value: start})
	}

	if end, err := config.EndTime.Take(); err == nil {
		sample = append(sample, yaml.MapItem{Key: "end_time", Value: end})
	}

	return append(sample, yaml.MapItem{Key: "strategies", Value: strategies})
}

// generateSampleConfig writes a sample config unless one already exists.
func generateSampleConfig(config engine.BacktestEngineV1Config, samplePath string, schemaName string) error {
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(sampleConfig(config))
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.MkdirAll(filepath.Dir(samplePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	log.Printf("Sample config successfully generated at %s", samplePath)

	return nil
}
