package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BacktestStats summarises one backtest run.
type BacktestStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Strategy is the name of the strategy that produced the positions.
	Strategy string `yaml:"strategy" json:"strategy"`
	// Instruments traded in the run.
	Instruments []string `yaml:"instruments" json:"instruments"`
	// StartTime and EndTime bound the evaluated window. Zero for an empty run.
	StartTime time.Time `yaml:"start_time" json:"start_time"`
	EndTime   time.Time `yaml:"end_time" json:"end_time"`
	// InitialValue is the starting cash.
	InitialValue float64 `yaml:"initial_value" json:"initial_value"`
	// FinalValue is the last portfolio value.
	FinalValue float64 `yaml:"final_value" json:"final_value"`
	// FinalCash is the last cash value.
	FinalCash float64 `yaml:"final_cash" json:"final_cash"`
	// TotalReturn is FinalValue / InitialValue - 1.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// MaxDrawdown is the lowest value of portfolio / running maximum - 1, zero or negative.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// NumberOfTrades counts the cells where the position changed, the opening row included.
	NumberOfTrades int `yaml:"number_of_trades" json:"number_of_trades"`
	// ResultFilePath is the path to the equity parquet file.
	ResultFilePath string `yaml:"result_file_path,omitempty" json:"result_file_path,omitempty"`
	// PositionsFilePath is the path to the positions parquet file.
	PositionsFilePath string `yaml:"positions_file_path,omitempty" json:"positions_file_path,omitempty"`
	// DataPath is the path to the market data used for this backtest.
	DataPath string `yaml:"data_path,omitempty" json:"data_path,omitempty"`
}

func WriteBacktestStats(path string, stats []BacktestStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}

// ReadBacktestStats reads a file written by WriteBacktestStats.
func ReadBacktestStats(path string) ([]BacktestStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backtest stats: %w", err)
	}

	var stats []BacktestStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse backtest stats: %w", err)
	}

	return stats, nil
}
