package model

import "errors"

// Common errors used across the application
var (
	// Team and session errors
	ErrInvalidUsername  = errors.New("invalid username")
	ErrReservedUsername = errors.New("username is reserved")
	ErrAlreadyLoggedIn  = errors.New("username already has an active session")
	ErrInvalidSession   = errors.New("invalid session")
	ErrSessionNotFound  = errors.New("session not found")
	ErrTeamNotFound     = errors.New("team not found")

	// Puzzle errors
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrPuzzleExists   = errors.New("puzzle already set")
	ErrInvalidPuzzle  = errors.New("invalid puzzle")
	ErrEmptyBatch     = errors.New("no puzzles given")
	ErrWrongAnswer    = errors.New("incorrect solution")
	ErrAlreadySolved  = errors.New("puzzle already solved")

	// Admin errors
	ErrAdminPasswordUnset = errors.New("admin password not set")
	ErrAdminPasswordSet   = errors.New("admin password already set")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Kind classifies an error for the calling transport layer
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindBadRequest   Kind = "bad_request"
	KindInternal     Kind = "internal"
)

var errorKinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidSession, KindUnauthorized},
	{ErrInvalidCredentials, KindUnauthorized},
	{ErrReservedUsername, KindForbidden},
	{ErrWrongAnswer, KindForbidden},
	{ErrAdminPasswordUnset, KindForbidden},
	{ErrAlreadyLoggedIn, KindConflict},
	{ErrPuzzleExists, KindConflict},
	{ErrAlreadySolved, KindConflict},
	{ErrAdminPasswordSet, KindConflict},
	{ErrSessionNotFound, KindNotFound},
	{ErrTeamNotFound, KindNotFound},
	{ErrPuzzleNotFound, KindNotFound},
	{ErrInvalidUsername, KindBadRequest},
	{ErrInvalidPuzzle, KindBadRequest},
	{ErrEmptyBatch, KindBadRequest},
	{ErrInvalidPassword, KindBadRequest},
}

// KindOf returns the kind of a store error. Anything unrecognised is internal.
func KindOf(err error) Kind {
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindInternal
}
