package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/knightrade/internal/backtest/engine"
	"github.com/schollz/progressbar/v3"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderSummary formats the statistics of every run as a table followed by
// the result folders.
func renderSummary(output backtestOutput) string {
	summary := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Strategy", "Final Value", "Total Return", "Max Drawdown", "Trades").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	for _, run := range output.Runs {
		stats := run.Statistics
		summary.Row(
			run.Strategy,
			fmt.Sprintf("%.2f", stats.FinalValue),
			formatPercent(stats.TotalReturn),
			formatPercent(stats.MaxDrawdown),
			fmt.Sprintf("%d", stats.NumberOfTrades),
		)
	}

	var builder strings.Builder

	builder.WriteString(titleStyle.Render("Backtest results"))
	builder.WriteString("\n")
	builder.WriteString(summary.String())
	builder.WriteString("\n")

	for _, folder := range output.Folders {
		builder.WriteString(faintStyle.Render("results: " + folder))
		builder.WriteString("\n")
	}

	return builder.String()
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value*100)
}

// progressReporter draws a bar that advances once per finished strategy.
type progressReporter struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

func newProgressReporter(writer io.Writer) *progressReporter {
	return &progressReporter{writer: writer, bar: nil}
}

func (p *progressReporter) callbacks() engine.LifecycleCallbacks {
	onStart := engine.OnBacktestStartCallback(func(totalStrategies int, _ int, _ int) error {
		p.bar = progressbar.NewOptions(totalStrategies,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionSetDescription("Backtesting"),
			progressbar.OptionShowCount(),
		)

		return nil
	})

	onStrategyEnd := engine.OnStrategyEndCallback(func(_ int, strategyName string, _ error) {
		if p.bar == nil {
			return
		}

		p.bar.Describe(strategyName)
		_ = p.bar.Add(1)
	})

	onEnd := engine.OnBacktestEndCallback(func(_ error) {
		if p.bar != nil {
			_ = p.bar.Finish()
		}
	})

	return engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnBacktestEnd:   &onEnd,
		OnStrategyStart: nil,
		OnStrategyEnd:   &onStrategyEnd,
	}
}
