package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/middleware"
	"github.com/mcoot/apollo/internal/model"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{model.ErrInvalidSession, http.StatusUnauthorized},
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{model.ErrReservedUsername, http.StatusForbidden},
		{model.ErrWrongAnswer, http.StatusForbidden},
		{model.ErrAdminPasswordUnset, http.StatusForbidden},
		{model.ErrAlreadyLoggedIn, http.StatusConflict},
		{model.ErrAlreadySolved, http.StatusConflict},
		{model.ErrPuzzleExists, http.StatusConflict},
		{model.ErrAdminPasswordSet, http.StatusConflict},
		{model.ErrSessionNotFound, http.StatusNotFound},
		{model.ErrPuzzleNotFound, http.StatusNotFound},
		{model.ErrInvalidUsername, http.StatusBadRequest},
		{model.ErrEmptyBatch, http.StatusBadRequest},
		{model.ErrInvalidPassword, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestWrappedErrorsKeepTheirCode(t *testing.T) {
	err := fmt.Errorf("%w: p1", model.ErrPuzzleExists)

	rr := httptest.NewRecorder()
	WriteError(rr, err)

	assert.Equal(t, http.StatusConflict, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, CodePuzzleExists, body.Error.Code)
}

func TestInternalErrorsDoNotLeakDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("open /secret/path: permission denied"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "/secret/path")
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestInvalidRequestError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, NewInvalidRequestError("bad body"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), CodeInvalidRequest)
	assert.Contains(t, rr.Body.String(), "bad body")
}

func TestWriteErrorEchoesRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.Header().Set(middleware.RequestIDHeader, "req-123")
	WriteError(rr, model.ErrWrongAnswer)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "req-123", body.Error.RequestID)
	assert.Equal(t, CodeWrongAnswer, body.Error.Code)
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"sentinel", model.ErrAlreadySolved, http.StatusConflict, CodeAlreadySolved, "Puzzle already solved"},
		{"unauthorized", NewUnauthorizedError(), http.StatusUnauthorized, CodeUnauthorized, "Authentication required"},
		{"internal", NewInternalError(), http.StatusInternalServerError, CodeInternalError, "Internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, APIError{Code: tt.code, Message: tt.message}, body.Error)
		})
	}
}
