package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/platinummonkey/gatehouse/pkg/apperr"
	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/middleware"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
	"github.com/platinummonkey/gatehouse/pkg/users"
)

// AuthHandlers handles registration, login, and logout requests
type AuthHandlers struct {
	users             users.Store
	manager           *sessions.Manager
	hasher            auth.PasswordHasher
	logger            *observability.Logger
	metrics           *observability.Metrics
	minPasswordLength int
	verbose           bool
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(store users.Store, manager *sessions.Manager, hasher auth.PasswordHasher, logger *observability.Logger, metrics *observability.Metrics, minPasswordLength int, verbose bool) *AuthHandlers {
	return &AuthHandlers{
		users:             store,
		manager:           manager,
		hasher:            hasher,
		logger:            logger,
		metrics:           metrics,
		minPasswordLength: minPasswordLength,
		verbose:           verbose,
	}
}

// register handles POST /api/auth/register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	attempt := &auth.Attempt{Username: req.Username, Password: req.Password}
	rejection := auth.Run(r.Context(), attempt,
		auth.RequireUsernameFree(h.users),
		auth.RequirePasswordLength(h.minPasswordLength),
	)
	if rejection != nil {
		httputil.WriteAppError(w, h.logger, rejection, h.verbose)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		httputil.WriteAppError(w, h.logger,
			apperr.StoreError(fmt.Errorf("password hashing: %w", err)), h.verbose)
		return
	}

	user, err := h.users.Insert(r.Context(), req.Username, hash)
	if err != nil {
		// Two registrations can race past the availability guard; the
		// unique constraint is the authority.
		if errors.Is(err, users.ErrUsernameTaken) {
			httputil.WriteAppError(w, h.logger, apperr.Conflict("Username taken"), h.verbose)
			return
		}
		httputil.WriteAppError(w, h.logger,
			apperr.StoreError(fmt.Errorf("user insert: %w", err)), h.verbose)
		return
	}

	h.metrics.Registrations.Inc()
	h.logger.WithField("username", user.Username).Info("user registered")
	httputil.WriteCreated(w, RegisterResponse{ID: user.ID, Username: user.Username})
}

// login handles POST /api/auth/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	attempt := &auth.Attempt{Username: req.Username, Password: req.Password}
	if rejection := auth.Run(r.Context(), attempt, auth.RequireUsernameExists(h.users)); rejection != nil {
		h.metrics.ObserveLogin(false)
		httputil.WriteAppError(w, h.logger, rejection, h.verbose)
		return
	}

	if !h.hasher.Verify(req.Password, attempt.User.PasswordHash) {
		h.metrics.ObserveLogin(false)
		httputil.WriteAppError(w, h.logger,
			apperr.Unauthenticated("Invalid credentials"), h.verbose)
		return
	}

	session, err := h.manager.Create(r.Context(), attempt.User)
	if err != nil {
		h.metrics.ObserveLogin(false)
		httputil.WriteAppError(w, h.logger,
			apperr.StoreError(fmt.Errorf("session create: %w", err)), h.verbose)
		return
	}

	http.SetCookie(w, h.manager.IssueCookie(session))
	h.metrics.ObserveLogin(true)
	h.metrics.SessionsCreated.Inc()
	h.logger.WithField("username", attempt.User.Username).Info("user logged in")
	httputil.WriteMessage(w, http.StatusOK, fmt.Sprintf("Welcome %s", attempt.User.Username))
}

// logout handles GET /api/auth/logout
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r)
	if session == nil {
		httputil.WriteMessage(w, http.StatusOK, "no session")
		return
	}

	if err := h.manager.Destroy(r.Context(), session.ID); err != nil {
		// The session row survives, so the cookie stays valid; keep it so
		// a retry can still find the session.
		h.logger.WithError(err).WithField("username", session.Username).Error("failed to destroy session")
		httputil.WriteMessage(w, http.StatusOK,
			fmt.Sprintf("You can never leave, %s...", session.Username))
		return
	}

	http.SetCookie(w, h.manager.ClearCookie())
	h.logger.WithField("username", session.Username).Info("user logged out")
	httputil.WriteMessage(w, http.StatusOK, "logged out")
}
