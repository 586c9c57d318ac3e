package datasource

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/internal/logger"
	"github.com/rxtech-lab/knightrade/internal/panel"
	"github.com/rxtech-lab/knightrade/internal/types"
	"github.com/rxtech-lab/knightrade/pkg/errors"
	"go.uber.org/zap"
)

type DuckDBDataSource struct {
	db          *sql.DB
	logger      *logger.Logger
	sq          squirrel.StatementBuilderType
	initialized bool
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// An empty path keeps the database in memory.
// This is distinct from Initialize() which attaches the market data file.
func NewDataSource(path string, log *logger.Logger) (*DuckDBDataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:          db,
		logger:      logger.OrNop(log),
		sq:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		initialized: false,
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	_, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// squirrel has no CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM %s(%s);
	`, readFunction(path), quoteLiteral(path))

	_, err = d.db.Exec(query)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read market data from %s", path)
	}

	d.initialized = true

	return nil
}

func (d *DuckDBDataSource) ensureInitialized() error {
	if !d.initialized {
		return errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized")
	}

	return nil
}

func withTimeRange(query squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return query
}

// Symbols implements DataSource.
func (d *DuckDBDataSource) Symbols() ([]string, error) {
	if err := d.ensureInitialized(); err != nil {
		return nil, err
	}

	query, args, err := d.sq.Select("DISTINCT symbol").From("market_data").OrderBy("symbol ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return symbols, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	if err := d.ensureInitialized(); err != nil {
		return 0, err
	}

	query, args, err := withTimeRange(d.sq.Select("COUNT(*)").From("market_data"), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int

	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count market data", err)
	}

	return count, nil
}

// LoadPanel implements DataSource.
func (d *DuckDBDataSource) LoadPanel(
	field types.PriceField,
	start optional.Option[time.Time],
	end optional.Option[time.Time],
	interval optional.Option[Interval],
) (*panel.Panel, error) {
	if err := d.ensureInitialized(); err != nil {
		return nil, err
	}

	// field ends up in the SQL text, so only known columns get through
	if _, err := types.ParsePriceField(string(field)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidField, "cannot load price panel", err)
	}

	builder := d.sq.Select("time", "symbol", string(field)).From("market_data")

	if interval.IsSome() {
		minutes, err := getIntervalMinutes(interval.Unwrap())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "cannot resample market data", err)
		}

		builder = d.sq.
			Select(fmt.Sprintf("time_bucket(INTERVAL '%d minutes', time) AS bucket", minutes), "symbol", aggregateExpression(field)).
			From("market_data").
			GroupBy("bucket", "symbol")
	}

	builder = withTimeRange(builder, start, end)
	if interval.IsSome() {
		builder = builder.OrderBy("bucket ASC", "symbol ASC")
	} else {
		builder = builder.OrderBy("time ASC", "symbol ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	d.logger.Debug("Loading price panel",
		zap.String("field", string(field)),
		zap.String("query", query),
	)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	observations := make([]observation, 0, 1000)

	for rows.Next() {
		var (
			timestamp time.Time
			symbol    string
			value     sql.NullFloat64
		)

		if err := rows.Scan(&timestamp, &symbol, &value); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		o := observation{time: timestamp, symbol: symbol, value: panel.Undefined()}
		if value.Valid {
			o.value = value.Float64
		}

		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	if len(observations) == 0 {
		return nil, errors.New(errors.ErrCodeDataNotFound, "no market data in the requested range")
	}

	return pivot(observations)
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

var _ DataSource = (*DuckDBDataSource)(nil)
