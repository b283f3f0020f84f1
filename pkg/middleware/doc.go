// Package middleware provides the HTTP-level guards of the auth service:
// session resolution, the authenticated-only gate, and login throttling.
//
// SessionMiddleware resolves the session cookie into a *sessions.Session on
// the request context for every request; anonymous traffic passes through
// untouched and is never handed a cookie. RequireSession gates protected
// routes, rejecting anonymous requests with 401 and touching rolling
// sessions on every successful pass.
//
// LoginRateLimiter throttles credential attempts per client IP with a token
// bucket.
package middleware
