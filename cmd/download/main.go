package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// progressScale turns fractional progress into whole steps of the bar.
const progressScale = 1000

func buildDownloadParams(ticker string, start time.Time, end time.Time, timespan string) (marketdata.DownloadParams, error) {
	parsed, err := marketdata.ParseTimespan(timespan)
	if err != nil {
		return marketdata.DownloadParams{}, err
	}

	return marketdata.DownloadParams{
		Ticker:     ticker,
		StartDate:  start,
		EndDate:    end,
		Multiplier: parsed.Multiplier(),
		Timespan:   parsed.Timespan(),
	}, nil
}

// newProgressHandler draws provider progress on a bar written to w.
func newProgressHandler(w io.Writer) (func(current float64, total float64, message string), *progressbar.ProgressBar) {
	bar := progressbar.NewOptions(progressScale,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionSetPredictTime(false),
	)

	return func(current float64, total float64, message string) {
		if total <= 0 {
			return
		}

		bar.Describe(message)
		_ = bar.Set(int(current / total * progressScale))
	}, bar
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer log.Sync() //nolint:errcheck

	params, err := buildDownloadParams(cmd.String("ticker"), cmd.Timestamp("start"), cmd.Timestamp("end"), cmd.String("timespan"))
	if err != nil {
		return err
	}

	onProgress, bar := newProgressHandler(os.Stderr)

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(cmd.String("provider")),
		WriterType:    marketdata.WriterType(cmd.String("writer")),
		DataPath:      cmd.String("data"),
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
	}, onProgress, log)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	log.Info("Starting download",
		zap.String("ticker", params.Ticker),
		zap.Time("start", params.StartDate),
		zap.Time("end", params.EndDate),
		zap.String("provider", cmd.String("provider")),
	)

	path, err := client.Download(ctx, params)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	_ = bar.Finish()

	fmt.Fprintf(os.Stdout, "\nDownloaded %s to %s\n", params.Ticker, path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol, e.g. AAPL or BTCUSDT",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:  "timespan",
				Usage: "Bar size, e.g. 1m, 1h or 1d",
				Value: string(marketdata.TimespanOneDay),
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (%s or %s)", marketdata.ProviderPolygon, marketdata.ProviderBinance),
				Value:   string(marketdata.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:    "writer",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Data writer format (%s)", marketdata.WriterDuckDB),
				Value:   string(marketdata.WriterDuckDB),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   "data",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
