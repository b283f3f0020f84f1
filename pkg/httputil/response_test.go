package httputil

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platinummonkey/gatehouse/pkg/apperr"
	"github.com/platinummonkey/gatehouse/pkg/observability"
)

func discardLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMessage(w, http.StatusOK, "logged out")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"logged out"}`, w.Body.String())
}

func TestWriteAppError(t *testing.T) {
	t.Run("client-safe rejection", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteAppError(w, discardLogger(), apperr.Unauthenticated("Invalid credentials"), false)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())
	})

	t.Run("store failure hides cause in production", func(t *testing.T) {
		w := httptest.NewRecorder()
		cause := errors.New("pq: connection refused to db-internal:5432")
		WriteAppError(w, discardLogger(), apperr.StoreError(cause), false)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())
	})

	t.Run("store failure surfaces cause when verbose", func(t *testing.T) {
		w := httptest.NewRecorder()
		cause := errors.New("connection refused")
		WriteAppError(w, discardLogger(), apperr.StoreError(cause), true)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"connection refused"}`, w.Body.String())
	})

	t.Run("nil logger is tolerated", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteAppError(w, nil, apperr.StoreError(errors.New("boom")), false)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCreated(w, map[string]interface{}{"id": 1, "username": "sue"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"username":"sue"}`, w.Body.String())
}
