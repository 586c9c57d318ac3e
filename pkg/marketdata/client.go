// Package marketdata downloads historical bars from external providers into
// parquet files the backtest data source can read.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/rxtech-lab/knightrade/pkg/marketdata/provider"
	"github.com/rxtech-lab/knightrade/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// ProviderType defines the type of market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon binance"`
	WriterType    WriterType   `validate:"required,oneof=duckdb"`
	DataPath      string       `validate:"required"`
	PolygonApiKey string       `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker     string          `validate:"required"`
	StartDate  time.Time       `validate:"required"`
	EndDate    time.Time       `validate:"required,gtfield=StartDate"`
	Multiplier int             `validate:"required,min=1"`
	Timespan   models.Timespan `validate:"required"`
}

// Client downloads data from a provider and stores it with a writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	logger     *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, config.PolygonApiKey)
	if err != nil {
		return nil, err
	}

	return newClientWithProvider(config, marketProvider, onProgress, log), nil
}

func newClientWithProvider(config ClientConfig, marketProvider provider.Provider, onProgress provider.OnDownloadProgress, log *logger.Logger) *Client {
	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
		logger:     logger.OrNop(log),
	}
}

// Download runs one download and returns the path of the written file.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid download parameters", err)
	}

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}

	c.provider.ConfigWriter(marketWriter)

	path, err := c.provider.Download(
		ctx,
		params.Ticker,
		params.StartDate,
		params.EndDate,
		params.Multiplier,
		params.Timespan,
		c.onProgress,
	)
	if err != nil {
		c.logger.Error("Download failed",
			zap.String("ticker", params.Ticker),
			zap.Error(err),
		)

		return "", err
	}

	c.logger.Info("Download finished",
		zap.String("ticker", params.Ticker),
		zap.String("path", path),
	)

	return path, nil
}

// OutputPath returns TICKER_START_END_MULTIPLIER_TIMESPAN.parquet inside the data folder.
func (c *Client) OutputPath(params DownloadParams) string {
	outputFileName := fmt.Sprintf("%s_%s_%s_%d_%s.parquet",
		params.Ticker,
		params.StartDate.Format("2006-01-02"),
		params.EndDate.Format("2006-01-02"),
		params.Multiplier,
		params.Timespan)

	return filepath.Join(c.config.DataPath, outputFileName)
}

func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create data folder", err)
		}

		return writer.NewDuckDBWriter(c.OutputPath(params)), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", c.config.WriterType)
	}
}
