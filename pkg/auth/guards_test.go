package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/gatehouse/pkg/apperr"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
	"github.com/platinummonkey/gatehouse/pkg/users"
)

// fakeUserStore backs guard tests without a database
type fakeUserStore struct {
	users map[string]*users.User
	err   error
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (*users.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Insert(ctx context.Context, username, passwordHash string) (*users.User, error) {
	return nil, users.ErrUsernameTaken
}

func (f *fakeUserStore) List(ctx context.Context) ([]*users.User, error) {
	return nil, nil
}

func TestRequireSession(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects anonymous attempt", func(t *testing.T) {
		rej := Run(ctx, &Attempt{}, RequireSession())
		require.NotNil(t, rej)
		assert.Equal(t, apperr.KindUnauthenticated, rej.Kind)
		assert.Equal(t, http.StatusUnauthorized, rej.Status)
		assert.Equal(t, "You shall not pass!", rej.Message)
	})

	t.Run("proceeds with session", func(t *testing.T) {
		a := &Attempt{Session: &sessions.Session{ID: "sid", Username: "sue"}}
		assert.Nil(t, Run(ctx, a, RequireSession()))
	})
}

func TestRequireUsernameFree(t *testing.T) {
	ctx := context.Background()

	t.Run("proceeds when username unknown", func(t *testing.T) {
		store := &fakeUserStore{users: map[string]*users.User{}}
		rej := Run(ctx, &Attempt{Username: "sue"}, RequireUsernameFree(store))
		assert.Nil(t, rej)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		store := &fakeUserStore{users: map[string]*users.User{"sue": {ID: 1, Username: "sue"}}}
		rej := Run(ctx, &Attempt{Username: "sue"}, RequireUsernameFree(store))
		require.NotNil(t, rej)
		assert.Equal(t, apperr.KindConflict, rej.Kind)
		assert.Equal(t, http.StatusUnprocessableEntity, rej.Status)
		assert.Equal(t, "Username taken", rej.Message)
	})

	t.Run("store failure becomes STORE_ERROR", func(t *testing.T) {
		store := &fakeUserStore{err: assert.AnError}
		rej := Run(ctx, &Attempt{Username: "sue"}, RequireUsernameFree(store))
		require.NotNil(t, rej)
		assert.Equal(t, apperr.KindStore, rej.Kind)
		assert.Equal(t, http.StatusInternalServerError, rej.Status)
	})
}

func TestRequireUsernameExists(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches resolved user", func(t *testing.T) {
		store := &fakeUserStore{users: map[string]*users.User{
			"sue": {ID: 1, Username: "sue", PasswordHash: "$2a$08$hash"},
		}}
		a := &Attempt{Username: "sue"}
		require.Nil(t, Run(ctx, a, RequireUsernameExists(store)))
		require.NotNil(t, a.User)
		assert.Equal(t, int64(1), a.User.ID)
	})

	t.Run("unknown user rejection matches wrong-password shape", func(t *testing.T) {
		store := &fakeUserStore{users: map[string]*users.User{}}
		rej := Run(ctx, &Attempt{Username: "ghost"}, RequireUsernameExists(store))
		require.NotNil(t, rej)
		assert.Equal(t, apperr.KindUnauthenticated, rej.Kind)
		assert.Equal(t, http.StatusUnauthorized, rej.Status)
		assert.Equal(t, "Invalid credentials", rej.Message)
	})

	t.Run("store failure becomes STORE_ERROR", func(t *testing.T) {
		store := &fakeUserStore{err: assert.AnError}
		rej := Run(ctx, &Attempt{Username: "sue"}, RequireUsernameExists(store))
		require.NotNil(t, rej)
		assert.Equal(t, apperr.KindStore, rej.Kind)
	})
}

func TestRequirePasswordLength(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		password string
		rejected bool
	}{
		{"empty", "", true},
		{"three chars", "123", true},
		{"exactly four", "1234", false},
		{"longer", "correct horse battery staple", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rej := Run(ctx, &Attempt{Password: tc.password}, RequirePasswordLength(MinPasswordLength))
			if tc.rejected {
				require.NotNil(t, rej)
				assert.Equal(t, apperr.KindValidation, rej.Kind)
				assert.Equal(t, "Password must be longer than 3 chars", rej.Message)
			} else {
				assert.Nil(t, rej)
			}
		})
	}
}

func TestRunStopsAtFirstRejection(t *testing.T) {
	ctx := context.Background()
	calls := 0

	counting := func(reject bool) Guard {
		return func(ctx context.Context, a *Attempt) *apperr.E {
			calls++
			if reject {
				return apperr.Validation("nope")
			}
			return nil
		}
	}

	rej := Run(ctx, &Attempt{}, counting(false), counting(true), counting(false))
	require.NotNil(t, rej)
	assert.Equal(t, 2, calls, "third guard must not run after a rejection")
}
