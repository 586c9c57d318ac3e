package datasource

import (
	"sort"
	"time"

	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

type observation struct {
	time   time.Time
	symbol string
	value  float64
}

// BuildPanel pivots bars into a TimeOriented panel of field. Timestamps are the
// sorted union over all symbols and symbols are sorted by name. A symbol with no
// bar at some timestamp gets an undefined cell there.
func BuildPanel(records []types.MarketData, field types.PriceField) (*panel.Panel, error) {
	if _, err := types.ParsePriceField(string(field)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidField, "cannot build price panel", err)
	}

	observations := make([]observation, len(records))
	for i, record := range records {
		observations[i] = observation{time: record.Time, symbol: record.Symbol, value: record.Value(field)}
	}

	return pivot(observations)
}

func pivot(observations []observation) (*panel.Panel, error) {
	timeIndex := make(map[int64]int)
	symbolIndex := make(map[string]int)

	var (
		times   []time.Time
		symbols []string
	)

	for _, o := range observations {
		if _, ok := timeIndex[o.time.UnixNano()]; !ok {
			timeIndex[o.time.UnixNano()] = 0
			times = append(times, o.time)
		}

		if _, ok := symbolIndex[o.symbol]; !ok {
			symbolIndex[o.symbol] = 0
			symbols = append(symbols, o.symbol)
		}
	}

	sort.Slice(times, func(a, b int) bool { return times[a].Before(times[b]) })
	sort.Strings(symbols)

	for t, ts := range times {
		timeIndex[ts.UnixNano()] = t
	}

	for i, symbol := range symbols {
		symbolIndex[symbol] = i
	}

	rows := make([][]float64, len(times))
	filled := make([][]bool, len(times))

	for t := range rows {
		rows[t] = make([]float64, len(symbols))
		filled[t] = make([]bool, len(symbols))

		for i := range rows[t] {
			rows[t][i] = panel.Undefined()
		}
	}

	for _, o := range observations {
		t, i := timeIndex[o.time.UnixNano()], symbolIndex[o.symbol]
		if filled[t][i] {
			return nil, errors.NewShapeErrorf(errors.ErrCodeDuplicateLabel,
				"symbol %q has more than one bar at %s", o.symbol, o.time.Format(time.RFC3339))
		}

		rows[t][i] = o.value
		filled[t][i] = true
	}

	return panel.NewTimeOriented(times, symbols, rows)
}
