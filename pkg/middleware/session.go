package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/platinummonkey/gatehouse/pkg/apperr"
	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/contextkeys"
	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
)

// SessionMiddleware resolves the session cookie for every request
type SessionMiddleware struct {
	manager *sessions.Manager
	logger  *observability.Logger
	verbose bool
}

// NewSessionMiddleware creates the session resolution middleware
func NewSessionMiddleware(manager *sessions.Manager, logger *observability.Logger, verbose bool) *SessionMiddleware {
	return &SessionMiddleware{
		manager: manager,
		logger:  logger,
		verbose: verbose,
	}
}

// Handler attaches the resolved session to the request context. Requests
// without a valid session proceed anonymously; only store I/O failures
// short-circuit, as STORE_ERROR through the centralized responder.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.manager.FromRequest(r)
		if err != nil {
			if !errors.Is(err, sessions.ErrNotFound) {
				httputil.WriteAppError(w, m.logger,
					apperr.StoreError(fmt.Errorf("session lookup: %w", err)), m.verbose)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextkeys.WithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession gates protected routes. Anonymous requests are rejected by
// the RequireSession guard; rolling sessions get their expiry extended on
// every pass.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r)

		attempt := &auth.Attempt{Session: session}
		if rejection := auth.Run(r.Context(), attempt, auth.RequireSession()); rejection != nil {
			httputil.WriteAppError(w, m.logger, rejection, m.verbose)
			return
		}

		if session.Rolling {
			if err := m.manager.Touch(r.Context(), session); err != nil {
				// Renewal failure does not fail the request; the session is
				// still valid until its current expiry.
				m.logger.WithError(err).Warn("failed to extend rolling session")
			}
		}

		next.ServeHTTP(w, r)
	})
}

// GetSession extracts the resolved session from the request, or nil
func GetSession(r *http.Request) *sessions.Session {
	value := r.Context().Value(contextkeys.SessionKey)
	if value == nil {
		return nil
	}
	session, ok := value.(*sessions.Session)
	if !ok {
		return nil
	}
	return session
}
