package api

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
	"github.com/platinummonkey/gatehouse/pkg/users"
)

// fakeUserStore is an in-memory users.Store for handler tests
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*users.User

	findErr   error
	insertErr error
	listErr   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byName: make(map[string]*users.User)}
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Insert(ctx context.Context, username, passwordHash string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if _, ok := f.byName[username]; ok {
		return nil, users.ErrUsernameTaken
	}
	f.nextID++
	u := &users.User{
		ID:           f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.byName[username] = u
	return u, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := make([]*users.User, 0, len(f.byName))
	for _, u := range f.byName {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// fakeSessionStore is an in-memory sessions.Store for handler tests
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessions.Session

	deleteErr error
	getErr    error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*sessions.Session)}
}

func (f *fakeSessionStore) Save(ctx context.Context, s *sessions.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*sessions.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, sessions.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return sessions.ErrNotFound
	}
	s.ExpiresAt = expiresAt
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.sessions[id]; !ok {
		return sessions.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for id, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// testEnv bundles a server with its backing fakes
type testEnv struct {
	server       *Server
	userStore    *fakeUserStore
	sessionStore *fakeSessionStore
	manager      *sessions.Manager
}

var errStoreDown = errors.New("store unavailable")

func newTestEnv() *testEnv {
	userStore := newFakeUserStore()
	sessionStore := newFakeSessionStore()
	manager := sessions.NewManager(sessionStore, sessions.Options{
		TTL:        time.Hour,
		Rolling:    true,
		CookieName: "chocolatechip",
		Secret:     []byte("test secret"),
	})

	server := NewServer(Options{
		Logger:  observability.NewLogger(observability.ErrorLevel, io.Discard),
		Metrics: observability.NewMetrics(),
		Users:   userStore,
		Manager: manager,
		// Cost 4 keeps the hashing fast in tests
		Hasher:  auth.NewBcryptHasher(4),
		Verbose: true,
	})

	return &testEnv{
		server:       server,
		userStore:    userStore,
		sessionStore: sessionStore,
		manager:      manager,
	}
}
