package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    *E
		kind   Kind
		status int
	}{
		{"validation", Validation("bad input"), KindValidation, http.StatusUnprocessableEntity},
		{"conflict", Conflict("taken"), KindConflict, http.StatusUnprocessableEntity},
		{"unauthenticated", Unauthenticated("nope"), KindUnauthenticated, http.StatusUnauthorized},
		{"not found", NotFound("missing"), KindNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Kind != tc.kind {
				t.Errorf("expected kind %s, got %s", tc.kind, tc.err.Kind)
			}
			if tc.err.Status != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.Status)
			}
			if tc.err.Err != nil {
				t.Error("expected no wrapped cause")
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	e := StoreError(cause)

	if e.Kind != KindStore {
		t.Errorf("expected kind %s, got %s", KindStore, e.Kind)
	}
	if e.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", e.Status)
	}
	if e.Message != "internal server error" {
		t.Errorf("client-facing message must stay generic, got %q", e.Message)
	}
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to match the wrapped cause")
	}
}

func TestErrorString(t *testing.T) {
	e := Unauthenticated("Invalid credentials")
	if e.Error() != "UNAUTHENTICATED: Invalid credentials" {
		t.Errorf("unexpected error string: %s", e.Error())
	}

	wrapped := StoreError(errors.New("boom"))
	if wrapped.Error() != "STORE_ERROR: internal server error: boom" {
		t.Errorf("unexpected error string: %s", wrapped.Error())
	}
}
