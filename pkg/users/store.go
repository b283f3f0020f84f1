package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/platinummonkey/gatehouse/pkg/storage"
)

const lookupCacheSize = 1024

// DBStore implements Store on database/sql (SQLite or PostgreSQL)
type DBStore struct {
	db      *sql.DB
	dialect storage.Dialect

	// cache holds positive username lookups. Safe because user records are
	// immutable after insert.
	cache *lru.Cache[string, *User]
}

// NewDBStore creates the credential store and its lookup cache
func NewDBStore(db *sql.DB, dialect storage.Dialect) (*DBStore, error) {
	cache, err := lru.New[string, *User](lookupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}

	return &DBStore{
		db:      db,
		dialect: dialect,
		cache:   cache,
	}, nil
}

// InitSchema creates the users table if it does not exist
func (s *DBStore) InitSchema(ctx context.Context) error {
	var ddl string
	switch s.dialect {
	case storage.DialectPostgres:
		ddl = `CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// FindByUsername returns the user with the exact username, or ErrNotFound
func (s *DBStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	if user, ok := s.cache.Get(username); ok {
		return user, nil
	}

	query := storage.Rebind(s.dialect,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`)

	user := &User{}
	err := s.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}

	s.cache.Add(username, user)
	return user, nil
}

// Insert persists a new user. The UNIQUE constraint on username is the
// authority on uniqueness; a violation maps to ErrUsernameTaken regardless
// of what any earlier pre-check saw.
func (s *DBStore) Insert(ctx context.Context, username, passwordHash string) (*User, error) {
	var id int64

	switch s.dialect {
	case storage.DialectPostgres:
		query := storage.Rebind(s.dialect,
			`INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id`)
		err := s.db.QueryRowContext(ctx, query, username, passwordHash).Scan(&id)
		if err != nil {
			if storage.IsUniqueViolation(err) {
				return nil, ErrUsernameTaken
			}
			return nil, fmt.Errorf("failed to insert user: %w", err)
		}
	default:
		result, err := s.db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
		if err != nil {
			if storage.IsUniqueViolation(err) {
				return nil, ErrUsernameTaken
			}
			return nil, fmt.Errorf("failed to insert user: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read inserted user id: %w", err)
		}
	}

	user := &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
	}
	s.cache.Add(username, user)
	return user, nil
}

// List returns all users ordered by ID
func (s *DBStore) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}
