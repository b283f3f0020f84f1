// Package api wires the HTTP surface of the service: the gorilla/mux
// router, the middleware chain, and the handlers for registration,
// login, logout, and the session-protected user listing.
//
// Handlers translate guard rejections into responses through the
// apperr/httputil pair so every failure path produces the same
// {"message": ...} body shape with the status the failure kind maps to.
package api
