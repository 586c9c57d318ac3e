package writer

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/knightrade/internal/types"
	"go.uber.org/multierr"
)

// DuckDBWriter buffers bars in an in-memory DuckDB table and exports them as a
// parquet file in the long format the backtest data source reads.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
}

// NewDuckDBWriter creates a new DuckDBWriter writing to the parquet file at outputPath.
func NewDuckDBWriter(outputPath string) *DuckDBWriter {
	return &DuckDBWriter{
		db:         nil,
		tx:         nil,
		stmt:       nil,
		outputPath: outputPath,
	}
}

// Initialize opens the database, creates the market_data table, begins a
// transaction and prepares the insert statement. Calling it again is a no-op.
func (w *DuckDBWriter) Initialize() (err error) {
	if w.stmt != nil {
		return nil
	}

	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to create table: %w", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO market_data (id, time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

// Write inserts one bar. Bars without an id get a random one.
func (w *DuckDBWriter) Write(data types.MarketData) error {
	if w.stmt == nil {
		return fmt.Errorf("writer not initialized or statement is nil")
	}

	id := data.Id
	if id == "" {
		id = uuid.New().String()
	}

	_, err := w.stmt.Exec(id, data.Time, data.Symbol, data.Open, data.High, data.Low, data.Close, data.Volume)
	if err != nil {
		return fmt.Errorf("failed to insert data: %w", err)
	}

	return nil
}

// Finalize commits the transaction and exports the table to the parquet file.
func (w *DuckDBWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", fmt.Errorf("writer not initialized or transaction is nil")
	}

	if err := w.stmt.Close(); err != nil {
		return "", fmt.Errorf("failed to close statement: %w", err)
	}

	w.stmt = nil

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	escaped := strings.ReplaceAll(w.outputPath, "'", "''")

	_, err := w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY time, symbol) TO '%s' (FORMAT PARQUET)`, escaped))
	if err != nil {
		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	return w.outputPath, nil
}

// Close releases the statement, the transaction and the database. Unfinalized
// rows are discarded.
func (w *DuckDBWriter) Close() error {
	var err error

	if w.stmt != nil {
		err = multierr.Append(err, w.stmt.Close())
		w.stmt = nil
	}

	if w.tx != nil {
		err = multierr.Append(err, w.tx.Rollback())
		w.tx = nil
	}

	if w.db != nil {
		err = multierr.Append(err, w.db.Close())
		w.db = nil
	}

	return err
}

func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}

var _ MarketDataWriter = (*DuckDBWriter)(nil)
