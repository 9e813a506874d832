package model

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// SessionID identifies one logged-in team. It is a capability token.
type SessionID string

// ReservedUsername can never be used by a team
const ReservedUsername = "admin"

// MaxUsernameLength bounds team names (in runes)
const MaxUsernameLength = 64

// SolvedSet is the set of puzzles a team has answered correctly
type SolvedSet map[PuzzleID]struct{}

// NewSolvedSet creates a solved set with the given members
func NewSolvedSet(ids ...PuzzleID) SolvedSet {
	s := make(SolvedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether the puzzle is in the set
func (s SolvedSet) Contains(id PuzzleID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts a puzzle, returning false if it was already present
func (s SolvedSet) Add(id PuzzleID) bool {
	if s.Contains(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Sorted returns the members in ascending order
func (s SolvedSet) Sorted() []PuzzleID {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy of the set
func (s SolvedSet) Clone() SolvedSet {
	out := make(SolvedSet, len(s))
	maps.Copy(out, s)
	return out
}

// Teams maps usernames to their solved sets
type Teams map[string]SolvedSet

// Clone deep-copies the team table
func (t Teams) Clone() Teams {
	out := make(Teams, len(t))
	for name, solved := range t {
		out[name] = solved.Clone()
	}
	return out
}

// Sessions maps session ids to the username they authenticate
type Sessions map[SessionID]string

// Clone returns an independent copy of the session table
func (s Sessions) Clone() Sessions {
	out := make(Sessions, len(s))
	maps.Copy(out, s)
	return out
}

// ValidateUsername checks that a team name may be used to join.
// Names must be valid UTF-8 without surrounding whitespace.
func ValidateUsername(username string) error {
	if username == "" || !utf8.ValidString(username) || utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrInvalidUsername
	}
	if strings.TrimSpace(username) != username {
		return ErrInvalidUsername
	}
	if strings.EqualFold(username, ReservedUsername) {
		return ErrReservedUsername
	}
	return nil
}
