// Package storage provides the relational database plumbing shared by the
// user and session stores: driver selection, connection pooling, placeholder
// rebinding between SQLite and PostgreSQL, and unique-violation detection.
//
// Queries throughout the repo are written with ? placeholders and rebound to
// $N for PostgreSQL via Rebind.
package storage
