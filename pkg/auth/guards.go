package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/platinummonkey/gatehouse/pkg/apperr"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
	"github.com/platinummonkey/gatehouse/pkg/users"
)

// MinPasswordLength is the registration policy: longer than 3 characters
const MinPasswordLength = 4

// Attempt is the per-request scratch state the guard pipeline operates on.
// Its lifetime is a single request.
type Attempt struct {
	Username string
	Password string

	// User is attached by RequireUsernameExists for later verification
	User *users.User

	// Session is the current session context, nil for anonymous requests
	Session *sessions.Session
}

// Guard inspects an attempt and proceeds (nil) or rejects with a typed failure
type Guard func(ctx context.Context, a *Attempt) *apperr.E

// Run executes guards in order, stopping at the first rejection
func Run(ctx context.Context, a *Attempt, guards ...Guard) *apperr.E {
	for _, guard := range guards {
		if rejection := guard(ctx, a); rejection != nil {
			return rejection
		}
	}
	return nil
}

// RequireSession proceeds only when the attempt carries an authenticated session
func RequireSession() Guard {
	return func(ctx context.Context, a *Attempt) *apperr.E {
		if a.Session == nil {
			return apperr.Unauthenticated("You shall not pass!")
		}
		return nil
	}
}

// RequireUsernameFree proceeds only when no user has the attempt's username.
// Store I/O failures surface as STORE_ERROR, never as a rejection.
func RequireUsernameFree(store users.Store) Guard {
	return func(ctx context.Context, a *Attempt) *apperr.E {
		_, err := store.FindByUsername(ctx, a.Username)
		if errors.Is(err, users.ErrNotFound) {
			return nil
		}
		if err != nil {
			return apperr.StoreError(fmt.Errorf("username availability check: %w", err))
		}
		return apperr.Conflict("Username taken")
	}
}

// RequireUsernameExists resolves the attempt's username and attaches the
// user. The rejection is indistinguishable from a wrong password so that
// error responses never confirm whether a username is registered.
func RequireUsernameExists(store users.Store) Guard {
	return func(ctx context.Context, a *Attempt) *apperr.E {
		user, err := store.FindByUsername(ctx, a.Username)
		if errors.Is(err, users.ErrNotFound) {
			return apperr.Unauthenticated("Invalid credentials")
		}
		if err != nil {
			return apperr.StoreError(fmt.Errorf("username lookup: %w", err))
		}
		a.User = user
		return nil
	}
}

// RequirePasswordLength proceeds only when the password is at least min long
func RequirePasswordLength(min int) Guard {
	return func(ctx context.Context, a *Attempt) *apperr.E {
		if len(a.Password) < min {
			return apperr.Validation(fmt.Sprintf("Password must be longer than %d chars", min-1))
		}
		return nil
	}
}
