package marketdata

import (
	"fmt"

	"github.com/polygon-io/client-go/rest/models"
)

// Timespan is a bar size such as "1m" or "4h".
type Timespan string

const (
	TimespanOneMinute      Timespan = "1m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanFourHours      Timespan = "4h"
	TimespanOneDay         Timespan = "1d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

var allTimespans = []Timespan{
	TimespanOneMinute,
	TimespanFiveMinutes,
	TimespanFifteenMinutes,
	TimespanThirtyMinutes,
	TimespanOneHour,
	TimespanFourHours,
	TimespanOneDay,
	TimespanOneWeek,
	TimespanOneMonth,
}

// ParseTimespan validates a bar size name.
func ParseTimespan(name string) (Timespan, error) {
	for _, timespan := range allTimespans {
		if string(timespan) == name {
			return timespan, nil
		}
	}

	return "", fmt.Errorf("unsupported timespan %q, expected one of %v", name, allTimespans)
}

func (t Timespan) Multiplier() int {
	switch t {
	case TimespanFiveMinutes:
		return 5
	case TimespanFifteenMinutes:
		return 15
	case TimespanThirtyMinutes:
		return 30
	case TimespanFourHours:
		return 4
	default:
		return 1
	}
}

func (t Timespan) Timespan() models.Timespan {
	switch t {
	case TimespanOneMinute, TimespanFiveMinutes, TimespanFifteenMinutes, TimespanThirtyMinutes:
		return models.Minute
	case TimespanOneHour, TimespanFourHours:
		return models.Hour
	case TimespanOneWeek:
		return models.Week
	case TimespanOneMonth:
		return models.Month
	default:
		return models.Day
	}
}
