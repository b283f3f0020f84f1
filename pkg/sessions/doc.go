// Package sessions implements the server-side session lifecycle: creation
// on login, lookup by bearer token, rolling renewal, and destruction on
// logout or expiry.
//
// # Model
//
// A session correlates a cryptographically random 256-bit identifier with a
// snapshot of the authenticated user (id and username, not a live join) and
// an expiry. The client only ever holds the identifier, HMAC-signed inside
// a cookie; session contents never leave the server.
//
// # Lifecycle
//
//	NONE -> ACTIVE (Manager.Create on login)
//	ACTIVE -> DESTROYED (Manager.Destroy on logout, or expiry)
//
// Rolling renewal extends ExpiresAt in place via Manager.Touch; it is not a
// separate state. Expiry is lazy: Lookup treats an expired row as absent and
// deletes it opportunistically. A cron-driven Purger additionally sweeps
// expired rows from the store every ten minutes.
//
// # Stores
//
// Two Store implementations are provided: DBStore on database/sql (shares
// the relational database with the credential store) and RedisStore, which
// leans on native key TTLs.
package sessions
