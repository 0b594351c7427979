package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"catalog-etl/models"
	"catalog-etl/utils"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database source drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// default ordering per driver. This is physical order: it follows insertion
// only until rows are updated or the table is rewritten (VACUUM FULL on
// PostgreSQL), and SQLite WITHOUT ROWID tables have no rowid at all. Set
// SQLSourceOptions.OrderBy when the table carries its own sequence column.
var orderColumn = map[string]string{
	DriverPostgres: "ctid",
	DriverSQLite:   "rowid",
}

// SQLSource reads catalog rows from a PostgreSQL or SQLite table
type SQLSource struct {
	db      *sql.DB
	driver  string
	dsn     string
	table   string
	orderBy string
	logger  *utils.Logger
}

// SQLSourceOptions configures OpenSQLSource
type SQLSourceOptions struct {
	Driver     string
	DSN        string
	Table      string
	OrderBy    string // optional column; empty means the driver's physical order
	MaxRetries int
	RetryDelay time.Duration
}

// OpenSQLSource opens the database and pings it with retries
func OpenSQLSource(ctx context.Context, opts SQLSourceOptions, logger *utils.Logger) (*SQLSource, error) {
	if _, ok := orderColumn[opts.Driver]; !ok {
		return nil, utils.NewPipelineError(utils.ErrConfig, opts.Driver, 0, fmt.Errorf("unsupported driver %q", opts.Driver))
	}
	if !tableNameRegex.MatchString(opts.Table) {
		return nil, utils.NewPipelineError(utils.ErrConfig, opts.Table, 0, fmt.Errorf("invalid table name %q", opts.Table))
	}
	orderBy := orderColumn[opts.Driver]
	if opts.OrderBy != "" {
		if !tableNameRegex.MatchString(opts.OrderBy) {
			return nil, utils.NewPipelineError(utils.ErrConfig, opts.Table, 0, fmt.Errorf("invalid order column %q", opts.OrderBy))
		}
		orderBy = `"` + opts.OrderBy + `"`
	}

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, utils.NewPipelineError(utils.ErrSource, redactDSN(opts.DSN), 0, fmt.Errorf("failed to open DB: %w", err))
	}

	if opts.Driver == DriverSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(time.Minute * 5)
	}

	err = utils.RetryWithBackoff(ctx, opts.MaxRetries, opts.RetryDelay, func() error {
		return db.PingContext(ctx)
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, utils.NewPipelineError(utils.ErrSource, redactDSN(opts.DSN), 0, fmt.Errorf("failed to ping DB: %w", err))
	}

	logger.Info("Connected to %s source (table %s)", opts.Driver, opts.Table)
	return &SQLSource{db: db, driver: opts.Driver, dsn: opts.DSN, table: opts.Table, orderBy: orderBy, logger: logger}, nil
}

// Load selects all rows of the table. Without an explicit OrderBy rows come
// back in physical order (ctid on PostgreSQL, rowid on SQLite), which matches
// insertion order only for append-only tables.
func (s *SQLSource) Load(ctx context.Context) ([]*models.RawRecord, error) {
	quoted := make([]string, len(InputColumns))
	for i, c := range InputColumns {
		quoted[i] = `"` + c + `"`
	}
	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY %s`,
		strings.Join(quoted, ", "), s.table, s.orderBy)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, utils.NewPipelineError(utils.ErrSource, s.table, 0, fmt.Errorf("query failed: %w", err))
	}
	defer rows.Close()

	var records []*models.RawRecord
	for row := 1; rows.Next(); row++ {
		cells := make([]sql.NullString, len(InputColumns))
		dest := make([]interface{}, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, utils.NewPipelineError(utils.ErrParse, s.table, row, err)
		}

		fields := make([]string, len(cells))
		for i, c := range cells {
			// NULL reads as a missing value
			fields[i] = c.String
		}
		records = append(records, rawFromFields(row, fields, columnPositions, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, utils.NewPipelineError(utils.ErrSource, s.table, 0, err)
	}

	s.logger.Info("Loaded %d rows from %s table %s", len(records), s.driver, s.table)
	return records, nil
}

// Close closes the database connection
func (s *SQLSource) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// columnPositions maps InputColumns to their index in a SELECT result
var columnPositions = func() map[string]int {
	m := make(map[string]int, len(InputColumns))
	for i, c := range InputColumns {
		m[c] = i
	}
	return m
}()

// redactDSN hides credentials in connection strings before they reach logs or errors
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
