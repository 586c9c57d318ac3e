package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"github.com/rxtech-lab/knightrade/pkg/marketdata/writer"
)

// binancePageSize is the number of klines Binance returns per request by default.
const binancePageSize = 500

// BinanceKlinesService is the builder of a klines request.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the part of the Binance client the provider needs.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceAPI struct {
	client *binance.Client
}

func (b *binanceAPI) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesService{service: b.client.NewKlinesService()}
}

type binanceKlinesService struct {
	service *binance.KlinesService
}

func (s *binanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.service.Symbol(symbol)

	return s
}

func (s *binanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.service.Interval(interval)

	return s
}

func (s *binanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.service.StartTime(startTime)

	return s
}

func (s *binanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.service.EndTime(endTime)

	return s
}

func (s *binanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	writer    writer.MarketDataWriter
}

func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceAPI{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a client on top of an existing API client.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		writer:    nil,
	}
}

func (c *BinanceClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download pages through the klines of ticker and writes them with the configured writer.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	interval, err := convertTimespanToBinanceInterval(timespan, multiplier)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to convert timespan to Binance interval", err)
	}

	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close writer", cerr)
		}
	}()

	startTimeMillis := startDate.UnixMilli()
	endTimeMillis := endDate.UnixMilli()
	currentStartTime := startTimeMillis
	message := fmt.Sprintf("Downloading %s klines from Binance", ticker)

	for {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(ticker).
			Interval(interval).
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Do(ctx)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch klines from Binance", err)
		}

		if err := processKlines(c.writer, ticker, klines); err != nil {
			return "", err
		}

		reportProgress(onProgress, float64(currentStartTime-startTimeMillis), float64(endTimeMillis-startTimeMillis), message)

		// a short page is the last one
		if len(klines) < binancePageSize {
			break
		}

		// continue after the close of the last kline to avoid duplicates
		currentStartTime = klines[len(klines)-1].CloseTime + 1
		if currentStartTime >= endTimeMillis {
			break
		}
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// processKlines converts Binance klines to MarketData and writes them.
func processKlines(w writer.MarketDataWriter, ticker string, klines []*binance.Kline) error {
	for _, k := range klines {
		values := make([]float64, 5)

		for i, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "malformed kline value %q", raw)
			}

			values[i] = value
		}

		err := w.Write(types.MarketData{
			Id:     "",
			Symbol: ticker,
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write market data", err)
		}
	}

	return nil
}

// convertTimespanToBinanceInterval converts the polygon timespan and multiplier to a Binance interval string.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
func convertTimespanToBinanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	switch timespan {
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	case models.Week:
		if multiplier == 1 {
			return "1w", nil
		}

		return "", fmt.Errorf("unsupported weekly multiplier for Binance: %d", multiplier)
	case models.Month:
		if multiplier == 1 {
			return "1M", nil
		}

		return "", fmt.Errorf("unsupported monthly multiplier for Binance: %d", multiplier)
	default:
		return "", fmt.Errorf("unsupported timespan for Binance: %s", timespan)
	}
}
