package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

const quoteColumns = `id, name, email, phone, company, project_type, package, budget, timeline, message, source, created_at`

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var _ Store = (*SQLStore)(nil)

// Open connects to the database, verifies the connection and applies
// migrations. For SQLite, dsn is a file path or ":memory:".
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases shared and serialises writers.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	s := NewSQLStore(db, driver)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an already opened database. It does not run migrations.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateQuote inserts a new quote.
func (s *SQLStore) CreateQuote(ctx context.Context, q *Quote) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	q.CreatedAt = q.CreatedAt.UTC().Truncate(time.Second)
	if q.Source == "" {
		q.Source = SourceWeb
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO quotes (`+quoteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		q.ID, q.Name, q.Email, q.Phone, q.Company, q.ProjectType, q.Package,
		q.Budget, q.Timeline, q.Message, q.Source, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(row scanner) (*Quote, error) {
	q := &Quote{}
	err := row.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Company, &q.ProjectType,
		&q.Package, &q.Budget, &q.Timeline, &q.Message, &q.Source, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	return q, nil
}

// GetQuote retrieves a quote by ID.
func (s *SQLStore) GetQuote(ctx context.Context, id string) (*Quote, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	q, err := scanQuote(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}

// ListQuotes returns quotes newest first.
func (s *SQLStore) ListQuotes(ctx context.Context, limit int) ([]*Quote, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT ` + quoteColumns + ` FROM quotes ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var quotes []*Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, nil
}

// CountQuotes returns the number of stored quotes.
func (s *SQLStore) CountQuotes(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}
	return n, nil
}

// DeleteQuotesBefore removes quotes older than cutoff.
func (s *SQLStore) DeleteQuotesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM quotes WHERE created_at < ?`),
		cutoff.UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("failed to delete quotes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted quotes: %w", err)
	}
	return n, nil
}
