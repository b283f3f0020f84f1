// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, and common middleware.
//
// # Response Helpers
//
// All error bodies use a single {"message": ...} shape:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteMessage(w, http.StatusOK, "logged out")
//	httputil.WriteAppError(w, logger, rejection, verbose)
//
// WriteAppError is the centralized responder for typed *apperr.E failures;
// guards and handlers return rejections instead of writing responses
// themselves. In verbose (non-production) mode store failures include the
// internal cause; in production the client sees only the generic message.
//
// # Request Parsing
//
//	var req credentialsRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RecoveryMiddleware(logger),
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger, metrics),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
package httputil
