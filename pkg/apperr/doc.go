// Package apperr defines the typed failure taxonomy shared by guards,
// handlers, and the centralized HTTP error responder.
//
// # Overview
//
// Every failure that crosses the HTTP boundary is an *apperr.E carrying a
// kind, an HTTP status, and a client-safe message. Guards and handlers never
// write error responses themselves; they return an *E and let
// httputil.WriteAppError render it.
//
// # Kinds
//
//   - KindValidation      (422) - malformed or out-of-policy input
//   - KindConflict        (422) - uniqueness violations (username taken)
//   - KindUnauthenticated (401) - missing/invalid credentials or session
//   - KindNotFound        (404) - unmatched routes
//   - KindStore           (500) - backing store I/O failures
//
// # Related Packages
//
//   - pkg/httputil: centralized responder consuming *E values
//   - pkg/auth: guards producing *E rejections
package apperr
