package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/apollo/internal/middleware"
	"github.com/mcoot/apollo/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidUsername    = "INVALID_USERNAME"
	CodeReservedUsername   = "RESERVED_USERNAME"
	CodeAlreadyLoggedIn    = "ALREADY_LOGGED_IN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeTeamNotFound       = "TEAM_NOT_FOUND"
	CodePuzzleNotFound     = "PUZZLE_NOT_FOUND"
	CodePuzzleExists       = "PUZZLE_EXISTS"
	CodeInvalidPuzzle      = "INVALID_PUZZLE"
	CodeEmptyBatch         = "EMPTY_BATCH"
	CodeWrongAnswer        = "WRONG_ANSWER"
	CodeAlreadySolved      = "ALREADY_SOLVED"
	CodeAdminPasswordUnset = "ADMIN_PASSWORD_UNSET"
	CodeAdminPasswordSet   = "ADMIN_PASSWORD_SET"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer.
// The request id set by the logging middleware is echoed in the body.
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	body := he.apiError
	body.RequestID = w.Header().Get(middleware.RequestIDHeader)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: body})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

var kindStatus = map[model.Kind]int{
	model.KindUnauthorized: http.StatusUnauthorized,
	model.KindForbidden:    http.StatusForbidden,
	model.KindConflict:     http.StatusConflict,
	model.KindNotFound:     http.StatusNotFound,
	model.KindBadRequest:   http.StatusBadRequest,
	model.KindInternal:     http.StatusInternalServerError,
}

var errorCodes = []struct {
	err     error
	code    string
	message string
}{
	{model.ErrInvalidUsername, CodeInvalidUsername, "Username must be 1-64 characters"},
	{model.ErrReservedUsername, CodeReservedUsername, "That username is reserved"},
	{model.ErrAlreadyLoggedIn, CodeAlreadyLoggedIn, "That team is already logged in"},
	{model.ErrInvalidSession, CodeUnauthorized, "Invalid or expired session"},
	{model.ErrSessionNotFound, CodeSessionNotFound, "Session not found"},
	{model.ErrTeamNotFound, CodeTeamNotFound, "Team not found"},
	{model.ErrPuzzleNotFound, CodePuzzleNotFound, "Puzzle not found"},
	{model.ErrPuzzleExists, CodePuzzleExists, "A puzzle with that id already exists"},
	{model.ErrInvalidPuzzle, CodeInvalidPuzzle, "Puzzle ids must not be blank"},
	{model.ErrEmptyBatch, CodeEmptyBatch, "No puzzles given"},
	{model.ErrWrongAnswer, CodeWrongAnswer, "Incorrect solution"},
	{model.ErrAlreadySolved, CodeAlreadySolved, "Puzzle already solved"},
	{model.ErrAdminPasswordUnset, CodeAdminPasswordUnset, "The admin password has not been set"},
	{model.ErrAdminPasswordSet, CodeAdminPasswordSet, "The admin password is already set"},
	{model.ErrInvalidPassword, CodeInvalidPassword, "Password must not be empty"},
	{model.ErrInvalidCredentials, CodeInvalidCredentials, "Invalid admin password"},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return &httpError{kindStatus[model.KindOf(ec.err)], APIError{Code: ec.code, Message: ec.message}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
