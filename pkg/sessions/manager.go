package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/users"
)

// DefaultTTL is the session lifetime when none is configured.
// Kept as an explicit, documented value; override with GATEHOUSE_SESSION_TTL.
const DefaultTTL = time.Hour

// Options configures the session manager
type Options struct {
	// TTL is the session lifetime from creation (or last touch when rolling)
	TTL time.Duration

	// Rolling extends the expiry on every authenticated request
	Rolling bool

	// CookieName is the client-side cookie carrying the signed session id
	CookieName string

	// CookieSecure marks the cookie Secure; set per TLS deployment posture
	CookieSecure bool

	// Secret signs session identifiers bound into cookies
	Secret []byte
}

// Manager owns the session lifecycle against a backing store
type Manager struct {
	store  Store
	signer *Signer
	opts   Options

	// now is swappable for tests
	now func() time.Time
}

// NewManager creates a session manager
func NewManager(store Store, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Manager{
		store:  store,
		signer: NewSigner(opts.Secret),
		opts:   opts,
		now:    time.Now,
	}
}

// TTL returns the configured session lifetime
func (m *Manager) TTL() time.Duration {
	return m.opts.TTL
}

// Create allocates a new session bound to the given user snapshot
func (m *Manager) Create(ctx context.Context, user *users.User) (*Session, error) {
	id, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	session := &Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.opts.TTL),
		Rolling:   m.opts.Rolling,
	}

	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return session, nil
}

// Lookup resolves a session identifier. Absent and expired sessions both
// yield ErrNotFound; expired rows are deleted opportunistically.
func (m *Manager) Lookup(ctx context.Context, id string) (*Session, error) {
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Expired(m.now()) {
		// Lazy expiry; the purge job handles rows nobody looks up.
		if delErr := m.store.Delete(ctx, id); delErr != nil && !errors.Is(delErr, ErrNotFound) {
			return nil, fmt.Errorf("failed to delete expired session: %w", delErr)
		}
		return nil, ErrNotFound
	}

	return session, nil
}

// Touch extends the session expiry in place (rolling renewal)
func (m *Manager) Touch(ctx context.Context, session *Session) error {
	expiresAt := m.now().Add(m.opts.TTL)
	if err := m.store.UpdateExpiry(ctx, session.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}
	session.ExpiresAt = expiresAt
	return nil
}

// Destroy removes the session from the store
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// FromRequest resolves the session referenced by the request's cookie.
// Missing cookie, bad signature, unknown id, and expiry all report
// ErrNotFound; only store I/O failures surface as other errors.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return nil, ErrNotFound
	}

	id, err := m.signer.Parse(cookie.Value)
	if err != nil {
		return nil, ErrNotFound
	}

	return m.Lookup(r.Context(), id)
}

// IssueCookie builds the signed cookie for a freshly created session.
// Cookies are only ever issued after successful authentication.
func (m *Manager) IssueCookie(session *Session) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    m.signer.Sign(session.ID),
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds an immediately-expired replacement cookie
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
