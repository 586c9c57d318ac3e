package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/rxtech-lab/knightrade/pkg/marketdata/writer"
)

// PolygonAggsIterator walks the pages of an aggregates query.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the part of the Polygon REST client the provider needs.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPI struct {
	client *polygon.Client
}

func (p *polygonAPI) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return p.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	writer    writer.MarketDataWriter
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an api key")
	}

	return NewPolygonClientWithAPI(&polygonAPI{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a client on top of an existing API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		writer:    nil,
	}
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured for PolygonClient, call ConfigWriter first")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close writer", cerr)
		}
	}()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	aggs := c.apiClient.ListAggs(ctx, params)
	total := endDate.Sub(startDate).Hours()
	message := fmt.Sprintf("Downloading %s", ticker)

	for aggs.Next() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		agg := aggs.Item()
		timestamp := time.Time(agg.Timestamp).UTC()

		err := c.writer.Write(types.MarketData{
			Id:     "",
			Symbol: ticker,
			Time:   timestamp,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write data", err)
		}

		reportProgress(onProgress, timestamp.Sub(startDate).Hours(), total, message)
	}

	if err := aggs.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", err)
	}

	reportProgress(onProgress, total, total, message)

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}
