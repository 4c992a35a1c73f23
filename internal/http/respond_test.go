package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/observability"
	"github.com/stretchr/testify/assert"
)

func TestWriteError_StatusMapping(t *testing.T) {
	logger := observability.NewLogger()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid input", errors.Wrap(domain.ErrInvalidInput, "price must be non-negative"), http.StatusBadRequest, "price must be non-negative"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized, please log in"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "insufficient permissions"},
		{"not found", errors.Wrap(domain.ErrNotFound, "ticket"), http.StatusNotFound, "ticket"},
		{"conflict", errors.Wrap(domain.ErrConflict, "seat already listed"), http.StatusConflict, "seat already listed"},
		{"serialization failure", domain.ErrSerializationFailure, http.StatusServiceUnavailable, "temporarily unavailable, retry"},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "temporarily unavailable, retry"},
		{"unclassified", errors.New("pool exhausted"), http.StatusInternalServerError, "server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, logger, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body map[string]string
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tc.wantBody)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteError_RetryAfterOnRetryable(t *testing.T) {
	logger := observability.NewLogger()

	rec := httptest.NewRecorder()
	writeError(rec, logger, domain.ErrSerializationFailure)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	writeError(rec, logger, errors.Wrap(domain.ErrConflict, "ticket sold"))
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestWriteError_InternalErrorsStayOpaque(t *testing.T) {
	logger := observability.NewLogger()

	rec := httptest.NewRecorder()
	writeError(rec, logger, errors.New("dial tcp 10.0.0.3:26257: connection refused"))

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "server error", body["error"])
	assert.NotContains(t, body["error"], "10.0.0.3")
}
