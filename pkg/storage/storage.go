package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavor in use
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config for the relational store
type Config struct {
	// Driver is "sqlite" or "postgres"
	Driver string

	// SQLitePath is the database file path (or ":memory:")
	SQLitePath string

	// PostgresURL is the connection URL when Driver is "postgres"
	PostgresURL string

	MaxConns    int
	MinConns    int
	PingTimeout time.Duration
}

// DefaultConfig returns sensible defaults (embedded SQLite)
func DefaultConfig() Config {
	return Config{
		Driver:      "sqlite",
		SQLitePath:  "gatehouse.db",
		MaxConns:    10,
		MinConns:    2,
		PingTimeout: 5 * time.Second,
	}
}

// Open opens and verifies a database connection for the configured driver
func Open(cfg Config) (*sql.DB, Dialect, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.Driver {
	case "sqlite":
		db, err = sql.Open("sqlite3", cfg.SQLitePath)
		dialect = DialectSQLite
	case "postgres":
		db, err = sql.Open("postgres", cfg.PostgresURL)
		dialect = DialectPostgres
	default:
		return nil, "", fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return db, dialect, nil
}

// Rebind converts ? placeholders to the dialect's native form.
// SQLite queries pass through unchanged; PostgreSQL gets $1..$N.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
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

// IsUniqueViolation reports whether err is a uniqueness constraint failure
// from either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
