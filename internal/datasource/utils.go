package datasource

import (
	"fmt"
	"strings"

	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// ParseInterval validates an interval name such as "1h" or "1d".
func ParseInterval(name string) (Interval, error) {
	interval := Interval(name)
	if _, err := getIntervalMinutes(interval); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid interval", err)
	}

	return interval, nil
}

func getIntervalMinutes(interval Interval) (int, error) {
	var intervalMinutes int

	switch interval {
	case Interval1m:
		intervalMinutes = 1
	case Interval5m:
		intervalMinutes = 5
	case Interval15m:
		intervalMinutes = 15
	case Interval30m:
		intervalMinutes = 30
	case Interval1h:
		intervalMinutes = 60
	case Interval4h:
		intervalMinutes = 240
	case Interval6h:
		intervalMinutes = 360
	case Interval8h:
		intervalMinutes = 480
	case Interval12h:
		intervalMinutes = 720
	case Interval1d:
		intervalMinutes = 1440
	case Interval1w:
		intervalMinutes = 10080
	default:
		return 0, fmt.Errorf("unsupported interval: %s", interval)
	}

	return intervalMinutes, nil
}

// aggregateExpression folds the bars of one bucket into a single value.
func aggregateExpression(field types.PriceField) string {
	switch field {
	case types.PriceFieldOpen:
		return "arg_min(open, time)"
	case types.PriceFieldHigh:
		return "MAX(high)"
	case types.PriceFieldLow:
		return "MIN(low)"
	case types.PriceFieldVolume:
		return "SUM(volume)"
	default:
		return "arg_max(close, time)"
	}
}

// readFunction picks the DuckDB table function for a file by its extension.
func readFunction(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".csv.gz") {
		return "read_csv_auto"
	}

	return "read_parquet"
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
