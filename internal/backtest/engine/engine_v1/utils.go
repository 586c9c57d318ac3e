package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// getResultFolder returns <results>/<strategy>[/<start>_<end>]. The time range
// folder only appears when the config restricts the window.
func getResultFolder(resultsFolder string, strategyName string, config BacktestEngineV1Config) string {
	strategyFolder := filepath.Join(resultsFolder, sanitizeFolderName(strategyName))

	if config.StartTime.IsNone() && config.EndTime.IsNone() {
		return strategyFolder
	}

	startTimeStr := "all"
	endTimeStr := "all"

	if config.StartTime.IsSome() {
		startTimeStr = config.StartTime.Unwrap().Format("20060102")
	}

	if config.EndTime.IsSome() {
		endTimeStr = config.EndTime.Unwrap().Format("20060102")
	}

	return filepath.Join(strategyFolder, fmt.Sprintf("%s_%s", startTimeStr, endTimeStr))
}

func sanitizeFolderName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, name)
}
