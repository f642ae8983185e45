package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/service"
)

type stubRunner struct {
	processed int
	err       error
}

func (s *stubRunner) RunPass(ctx context.Context) (int, error) {
	return s.processed, s.err
}

func TestEngineHandler_RunPass(t *testing.T) {
	t.Run("reports processed count", func(t *testing.T) {
		h := NewEngineHandler(&stubRunner{processed: 7})

		req := httptest.NewRequest(http.MethodPost, "/engine/run", nil)
		rec := httptest.NewRecorder()
		h.RunPass(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 7, body["processed"])
	})

	t.Run("store unavailable", func(t *testing.T) {
		h := NewEngineHandler(&stubRunner{
			err: &service.PersistenceError{Op: "list due enrollments", Err: errors.New("connection refused")},
		})

		req := httptest.NewRequest(http.MethodPost, "/engine/run", nil)
		rec := httptest.NewRecorder()
		h.RunPass(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "STORE_UNAVAILABLE", body.Error.Code)
	})

	t.Run("unexpected error is opaque", func(t *testing.T) {
		h := NewEngineHandler(&stubRunner{err: errors.New("boom")})

		req := httptest.NewRequest(http.MethodPost, "/engine/run", nil)
		rec := httptest.NewRecorder()
		h.RunPass(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.NotContains(t, body.Error.Message, "boom")
	})
}
