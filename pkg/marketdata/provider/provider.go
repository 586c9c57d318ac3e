package provider

import (
	"context"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/rxtech-lab/knightrade/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter configures the writer the downloaded bars go to.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download fetches bars for ticker between startDate and endDate, writes them
	// with the configured writer and returns the writer's output path.
	// The context can be used to cancel the download operation.
	// example:
	// Download(ctx, "AAPL", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), 1, models.Day, onProgress)
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
// Polygon needs an API key, Binance public data does not.
func NewMarketDataProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

func reportProgress(onProgress OnDownloadProgress, current float64, total float64, message string) {
	if onProgress != nil {
		onProgress(current, total, message)
	}
}
