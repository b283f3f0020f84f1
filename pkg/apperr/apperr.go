package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies a failure for logging and metrics
type Kind string

const (
	// KindValidation indicates input that failed a policy check
	KindValidation Kind = "VALIDATION"
	// KindConflict indicates a uniqueness conflict
	KindConflict Kind = "CONFLICT"
	// KindUnauthenticated indicates missing or invalid credentials/session
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	// KindNotFound indicates an unmatched resource or route
	KindNotFound Kind = "NOT_FOUND"
	// KindStore indicates a backing store I/O failure
	KindStore Kind = "STORE_ERROR"
)

// E is a typed failure consumed by the centralized HTTP responder.
// Message is always safe to show to clients; Err holds the internal cause
// and is only surfaced in non-production configurations.
type E struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the internal cause, if any
func (e *E) Unwrap() error {
	return e.Err
}

// Validation creates a 422 validation failure
func Validation(message string) *E {
	return &E{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Message: message}
}

// Conflict creates a 422 conflict failure
func Conflict(message string) *E {
	return &E{Kind: KindConflict, Status: http.StatusUnprocessableEntity, Message: message}
}

// Unauthenticated creates a 401 failure
func Unauthenticated(message string) *E {
	return &E{Kind: KindUnauthenticated, Status: http.StatusUnauthorized, Message: message}
}

// NotFound creates a 404 failure
func NotFound(message string) *E {
	return &E{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// StoreError wraps a backing store failure as a 500. The client-facing
// message is fixed; the cause travels in Err for logs and non-production
// responses.
func StoreError(err error) *E {
	return &E{
		Kind:    KindStore,
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Err:     err,
	}
}
