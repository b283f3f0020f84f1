package sessions

import (
	"context"
	"errors"
	"time"
)

// Session is a server-side record binding a bearer token to a user snapshot
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Rolling   bool      `json:"rolling"`
}

// Expired reports whether the session is past its expiry at the given time
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ErrNotFound is returned when no session matches the identifier
var ErrNotFound = errors.New("session not found")

// Store persists session records. Get may return expired sessions; the
// Manager owns expiry semantics.
type Store interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all sessions past their expiry and returns the
	// number removed. Backends with native TTLs may report zero.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
