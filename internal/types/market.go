package types

import (
	"fmt"
	"time"
)

// MarketData is one OHLCV bar of one symbol.
type MarketData struct {
	Id     string    `csv:"id" json:"id"`
	Symbol string    `csv:"symbol" json:"symbol"`
	Time   time.Time `csv:"time" json:"time"`
	Open   float64   `csv:"open" json:"open"`
	High   float64   `csv:"high" json:"high"`
	Low    float64   `csv:"low" json:"low"`
	Close  float64   `csv:"close" json:"close"`
	Volume float64   `csv:"volume" json:"volume"`
}

// PriceField selects which column of a bar feeds a price panel.
type PriceField string

const (
	PriceFieldOpen   PriceField = "open"
	PriceFieldHigh   PriceField = "high"
	PriceFieldLow    PriceField = "low"
	PriceFieldClose  PriceField = "close"
	PriceFieldVolume PriceField = "volume"
)

// AllPriceFields lists every valid PriceField.
var AllPriceFields = []PriceField{
	PriceFieldOpen,
	PriceFieldHigh,
	PriceFieldLow,
	PriceFieldClose,
	PriceFieldVolume,
}

// ParsePriceField validates a column name.
func ParsePriceField(name string) (PriceField, error) {
	for _, field := range AllPriceFields {
		if string(field) == name {
			return field, nil
		}
	}

	return "", fmt.Errorf("unknown price field %q, expected one of %v", name, AllPriceFields)
}

// Value returns the bar's value for field.
func (m MarketData) Value(field PriceField) float64 {
	switch field {
	case PriceFieldOpen:
		return m.Open
	case PriceFieldHigh:
		return m.High
	case PriceFieldLow:
		return m.Low
	case PriceFieldVolume:
		return m.Volume
	default:
		return m.Close
	}
}
