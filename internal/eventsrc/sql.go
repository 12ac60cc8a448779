package eventsrc

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// SQLSource reads events from a table with columns a, b, weight, ts.
type SQLSource struct {
	db        *sql.DB
	tableName string
	backend   schema.SourceBackend
}

var _ contract.EventSource = &SQLSource{} // Compile-time check

// NewSQLSource opens and pings the database behind connStr.
func NewSQLSource(backend schema.SourceBackend, connStr, tableName string) (*SQLSource, error) {
	// Validate table name to prevent SQL injection
	if err := contract.ValidateTableName(tableName); err != nil {
		return nil, err
	}

	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteSource:
		db, err = sql.Open("sqlite", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w", connStr, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLSource:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		cfg, perr := mysql.ParseDSN(connStr)
		if perr != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", perr)
		}
		// DATETIME columns scan into time.Time only with parseTime
		cfg.ParseTime = true
		db, err = sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case schema.PostgreSQLSource:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", backend, err)
	}

	return &SQLSource{db: db, tableName: tableName, backend: backend}, nil
}

// Describe implements the EventSource interface.
func (s *SQLSource) Describe() string {
	return fmt.Sprintf("%s table %s", s.backend, s.tableName)
}

// Close implements the EventSource interface.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// Load implements the EventSource interface.
func (s *SQLSource) Load(ctx context.Context) ([]schema.Event, error) {
	query := fmt.Sprintf("SELECT a, b, weight, ts FROM %s", quoteTableName(s.tableName, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []schema.Event
	for rows.Next() {
		var (
			ev schema.Event
			ts any
		)
		if err := rows.Scan(&ev.A, &ev.B, &ev.Weight, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan event row %d: %w", len(events)+1, err)
		}
		if ev.Time, err = timestampOf(ts); err != nil {
			return nil, fmt.Errorf("event row %d: %w", len(events)+1, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// timestampOf converts a scanned timestamp cell. Drivers return native times
// for timestamp columns, text for text columns and integers for unix seconds.
func timestampOf(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return contract.ParseTimestamp(t)
	case []byte:
		return contract.ParseTimestamp(string(t))
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case float64:
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	case nil:
		return time.Time{}, fmt.Errorf("null timestamp")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

// quoteTableName quotes a table name for the given backend.
func quoteTableName(tableName string, backend schema.SourceBackend) string {
	if backend == schema.MySQLSource {
		return "`" + tableName + "`"
	}
	return `"` + tableName + `"`
}
