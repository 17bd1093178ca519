// Package db provides the relational storage for tasks, planner slots and
// users on SQLite or PostgreSQL.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas are applied to every SQLite connection in the pool.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Store implements task.Repository, planner.Store and the automation store.
type Store struct {
	db     *sqlx.DB
	sb     squirrel.StatementBuilderType
	driver string
}

// New opens a SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	return Open(DriverSQLite, path)
}

// Open connects to the database and runs migrations.
func Open(driver, dsn string) (*Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
		dsn = withSQLitePragmas(dsn)
	case DriverPostgres, "postgresql":
		driver = DriverPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := newStore(db, driver)
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func newStore(db *sqlx.DB, driver string) *Store {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	if driver == DriverPostgres {
		placeholder = squirrel.Dollar
	}
	return &Store{
		db:     db,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		driver: driver,
	}
}

// Driver returns the name of the database driver in use.
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}
