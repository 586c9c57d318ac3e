// Package datasource loads long-format market data (one row per bar and symbol)
// and pivots it into price panels.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
)

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

type DataSource interface {
	// Initialize points the data source at a parquet or csv file
	Initialize(path string) error
	// Symbols returns every symbol in the data, sorted
	Symbols() ([]string, error)
	// Count returns the number of bars between start and end
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// LoadPanel returns field as a TimeOriented panel with one column per symbol.
	// When interval is set, bars are aggregated into buckets of that size first.
	LoadPanel(field types.PriceField, start optional.Option[time.Time], end optional.Option[time.Time], interval optional.Option[Interval]) (*panel.Panel, error)
	// Close releases the underlying database
	Close() error
}
