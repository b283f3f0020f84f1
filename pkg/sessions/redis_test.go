package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreWithClient(client), mr
}

func activeSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    1,
		Username:  "sue",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
		Rolling:   true,
	}
}

func TestRedisStoreSaveAndGet(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, activeSession("sid-1")))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "sid-1", got.ID)
	assert.Equal(t, "sue", got.Username)
	assert.Equal(t, int64(1), got.UserID)
}

func TestRedisStoreGetAbsent(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreExpiryViaTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, activeSession("sid-1")))

	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreRejectsExpiredSave(t *testing.T) {
	store, _ := newTestRedisStore(t)

	s := activeSession("sid-1")
	s.ExpiresAt = time.Now().Add(-time.Minute)

	assert.Error(t, store.Save(context.Background(), s))
}

func TestRedisStoreUpdateExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, activeSession("sid-1")))

	newExpiry := time.Now().Add(3 * time.Hour)
	require.NoError(t, store.UpdateExpiry(ctx, "sid-1", newExpiry))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, newExpiry, got.ExpiresAt, time.Second)

	// The key survives past the original one-hour TTL.
	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "sid-1")
	assert.NoError(t, err)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, activeSession("sid-1")))
	require.NoError(t, store.Delete(ctx, "sid-1"))

	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "sid-1"), ErrNotFound)
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	mr.Set(redisKeyPrefix+"bad", "{not json")

	_, err := store.Get(ctx, "bad")
	require.Error(t, err)

	// Corrupt entry was dropped.
	assert.False(t, mr.Exists(redisKeyPrefix+"bad"))
}
