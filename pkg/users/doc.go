// Package users provides the user model and the credential store.
//
// Users are created on registration and are immutable afterwards; there are
// no update or delete paths. Username uniqueness is enforced by a UNIQUE
// constraint in the backing database, so a concurrent register race resolves
// to ErrUsernameTaken at insert time instead of relying on the pre-check.
//
// DBStore works against both SQLite and PostgreSQL through database/sql.
// Because user rows never change after insert, positive username lookups are
// cached in a small LRU.
package users
