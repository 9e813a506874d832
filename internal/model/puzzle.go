package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// PuzzleID uniquely identifies a puzzle in the competition
type PuzzleID string

// PuzzleValue is the number of points a puzzle is worth
type PuzzleValue uint32

// Puzzle is a puzzle definition as set by the admin
// Solution is authoritative and must never reach non-admin views
type Puzzle struct {
	Solution string
	Value    PuzzleValue
}

// Puzzles maps puzzle ids to their definitions
type Puzzles map[PuzzleID]Puzzle

// Validate checks that a puzzle id is usable
func (id PuzzleID) Validate() error {
	if strings.TrimSpace(string(id)) == "" || !utf8.ValidString(string(id)) {
		return ErrInvalidPuzzle
	}
	return nil
}

// Validate checks that a puzzle definition can be stored.
// Empty solutions are allowed.
func (p Puzzle) Validate() error {
	if !utf8.ValidString(p.Solution) {
		return fmt.Errorf("%w: solution is not valid UTF-8", ErrInvalidPuzzle)
	}
	return nil
}

// Clone returns an independent copy of the catalog
func (p Puzzles) Clone() Puzzles {
	out := make(Puzzles, len(p))
	maps.Copy(out, p)
	return out
}

// SortedIDs returns the puzzle ids in ascending order
func (p Puzzles) SortedIDs() []PuzzleID {
	return slices.Sorted(maps.Keys(p))
}
