package users

import (
	"context"
	"errors"
	"time"
)

// User represents a registered account. PasswordHash never serializes.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

var (
	// ErrNotFound is returned when no user matches the lookup
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when an insert hits the uniqueness constraint
	ErrUsernameTaken = errors.New("username taken")
)

// Store is the credential store contract
type Store interface {
	// FindByUsername returns the user with the exact username, or ErrNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Insert persists a new user and returns it with its assigned ID.
	// Returns ErrUsernameTaken when the username already exists.
	Insert(ctx context.Context, username, passwordHash string) (*User, error)

	// List returns all users ordered by ID
	List(ctx context.Context) ([]*User, error)
}
