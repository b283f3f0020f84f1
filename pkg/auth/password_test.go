package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(DefaultHashCost)

	digest, err := h.Hash("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", digest)
	assert.True(t, strings.HasPrefix(digest, "$2a$08$"), "expected fixed cost 8 digest, got %s", digest)

	assert.True(t, h.Verify("1234", digest))
	assert.False(t, h.Verify("12345", digest))
	assert.False(t, h.Verify("", digest))
}

func TestBcryptHasherUniqueSalts(t *testing.T) {
	h := NewBcryptHasher(DefaultHashCost)

	a, err := h.Hash("hunter2")
	require.NoError(t, err)
	b, err := h.Hash("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "each hash must use a fresh salt")
	assert.True(t, h.Verify("hunter2", a))
	assert.True(t, h.Verify("hunter2", b))
}

func TestBcryptHasherMalformedDigest(t *testing.T) {
	h := NewBcryptHasher(DefaultHashCost)

	// Corrupted storage must read as a plain mismatch, never a distinguishable
	// failure the caller could leak.
	assert.False(t, h.Verify("1234", ""))
	assert.False(t, h.Verify("1234", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("1234", "$2a$08$tooshort"))
}

func TestNewBcryptHasherDefaultsCost(t *testing.T) {
	h := NewBcryptHasher(0)
	digest, err := h.Hash("1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2a$08$"))
}
