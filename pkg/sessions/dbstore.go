package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/storage"
)

// DBStore persists sessions in the relational database, mirroring the
// sessions table the credential store lives next to.
type DBStore struct {
	db      *sql.DB
	dialect storage.Dialect
}

// NewDBStore creates a relational session store
func NewDBStore(db *sql.DB, dialect storage.Dialect) *DBStore {
	return &DBStore{db: db, dialect: dialect}
}

// InitSchema creates the sessions table if it does not exist
func (s *DBStore) InitSchema(ctx context.Context) error {
	var ddl string
	switch s.dialect {
	case storage.DialectPostgres:
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
			sid TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			username TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			rolling BOOLEAN NOT NULL DEFAULT FALSE
		)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
			sid TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			rolling BOOLEAN NOT NULL DEFAULT 0
		)`
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Save inserts a session row
func (s *DBStore) Save(ctx context.Context, session *Session) error {
	query := storage.Rebind(s.dialect,
		`INSERT INTO sessions (sid, user_id, username, created_at, expires_at, rolling)
		 VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.Username,
		session.CreatedAt, session.ExpiresAt, session.Rolling)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns the session row, expired or not; expiry is the Manager's call
func (s *DBStore) Get(ctx context.Context, id string) (*Session, error) {
	query := storage.Rebind(s.dialect,
		`SELECT sid, user_id, username, created_at, expires_at, rolling
		 FROM sessions WHERE sid = ?`)

	session := &Session{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.Username,
		&session.CreatedAt, &session.ExpiresAt, &session.Rolling)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return session, nil
}

// UpdateExpiry extends a session's expires_at in place
func (s *DBStore) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	query := storage.Rebind(s.dialect, `UPDATE sessions SET expires_at = ? WHERE sid = ?`)

	result, err := s.db.ExecContext(ctx, query, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to update session expiry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session row
func (s *DBStore) Delete(ctx context.Context, id string) error {
	query := storage.Rebind(s.dialect, `DELETE FROM sessions WHERE sid = ?`)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired sweeps all rows past their expiry
func (s *DBStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := storage.Rebind(s.dialect, `DELETE FROM sessions WHERE expires_at <= ?`)

	result, err := s.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}
