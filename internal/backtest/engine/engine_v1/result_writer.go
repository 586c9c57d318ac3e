package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
	"go.uber.org/zap"
)

const (
	equityFileName    = "equity.parquet"
	positionsFileName = "positions.parquet"
	statsFileName     = "stats.yaml"
	// rows per INSERT statement
	insertBatchSize = 500
)

// ResultWriter stores strategy runs as parquet files through an in-memory DuckDB.
type ResultWriter struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewResultWriter(log *logger.Logger) (*ResultWriter, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open result database: %w", err)
	}

	return &ResultWriter{
		db:     db,
		logger: logger.OrNop(log),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Write exports run into <resultsFolder>/<strategy>[/<start>_<end>] and returns
// the folder. The folder holds equity.parquet (time, portfolio, cash),
// positions.parquet (time, symbol, price, position) and stats.yaml.
func (w *ResultWriter) Write(resultsFolder string, run StrategyRun, config BacktestEngineV1Config) (string, error) {
	folder := getResultFolder(resultsFolder, run.Strategy, config)

	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}

	if err := w.createTables(); err != nil {
		return "", err
	}

	if err := w.insertEquity(run); err != nil {
		return "", err
	}

	if err := w.insertPositions(run); err != nil {
		return "", err
	}

	equityPath := filepath.Join(folder, equityFileName)
	positionsPath := filepath.Join(folder, positionsFileName)

	// Export to Parquet - using raw SQL as Squirrel doesn't support COPY
	if err := w.copyToParquet("equity", equityPath); err != nil {
		return "", err
	}

	if err := w.copyToParquet("positions", positionsPath); err != nil {
		return "", err
	}

	stats := run.Statistics
	stats.ResultFilePath = equityPath
	stats.PositionsFilePath = positionsPath

	if err := types.WriteBacktestStats(filepath.Join(folder, statsFileName), []types.BacktestStats{stats}); err != nil {
		return "", err
	}

	w.logger.Info("Successfully exported backtest results",
		zap.String("strategy", run.Strategy),
		zap.String("folder", folder),
	)

	return folder, nil
}

func (w *ResultWriter) createTables() error {
	_, err := w.db.Exec(`
		CREATE OR REPLACE TABLE equity (
			time TIMESTAMP,
			portfolio DOUBLE,
			cash DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create equity table: %w", err)
	}

	_, err = w.db.Exec(`
		CREATE OR REPLACE TABLE positions (
			time TIMESTAMP,
			symbol TEXT,
			price DOUBLE,
			position DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create positions table: %w", err)
	}

	return nil
}

func (w *ResultWriter) insertEquity(run StrategyRun) error {
	if run.Result.Portfolio == nil || run.Result.Cash == nil {
		return fmt.Errorf("strategy %s has no result", run.Strategy)
	}

	times := run.Result.Portfolio.Times()
	portfolio := run.Result.Portfolio.Series(0)
	cash := run.Result.Cash.Series(0)

	for start := 0; start < len(times); start += insertBatchSize {
		end := min(start+insertBatchSize, len(times))

		insert := w.sq.Insert("equity").Columns("time", "portfolio", "cash")
		for t := start; t < end; t++ {
			insert = insert.Values(times[t], portfolio[t], cash[t])
		}

		if err := w.exec(insert); err != nil {
			return fmt.Errorf("failed to insert equity rows: %w", err)
		}
	}

	return nil
}

func (w *ResultWriter) insertPositions(run StrategyRun) error {
	if run.Position == nil || run.Price == nil {
		return fmt.Errorf("strategy %s has no positions", run.Strategy)
	}

	times := run.Position.Times()
	instruments := run.Position.Instruments()

	type row struct {
		t int
		i int
	}

	rows := make([]row, 0, len(times)*len(instruments))
	for t := range times {
		for i := range instruments {
			rows = append(rows, row{t: t, i: i})
		}
	}

	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		insert := w.sq.Insert("positions").Columns("time", "symbol", "price", "position")
		for _, r := range rows[start:end] {
			var price any = run.Price.At(r.t, r.i)
			if panel.IsUndefined(run.Price.At(r.t, r.i)) {
				price = nil
			}

			insert = insert.Values(times[r.t], instruments[r.i], price, run.Position.At(r.t, r.i))
		}

		if err := w.exec(insert); err != nil {
			return fmt.Errorf("failed to insert position rows: %w", err)
		}
	}

	return nil
}

func (w *ResultWriter) exec(insert squirrel.InsertBuilder) error {
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}

	_, err = w.db.Exec(query, args...)

	return err
}

func (w *ResultWriter) copyToParquet(table string, path string) error {
	escaped := strings.ReplaceAll(path, "'", "''")

	_, err := w.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, table, escaped))
	if err != nil {
		return fmt.Errorf("failed to export %s to Parquet: %w", table, err)
	}

	return nil
}

// Close releases the in-memory database.
func (w *ResultWriter) Close() error {
	return w.db.Close()
}
