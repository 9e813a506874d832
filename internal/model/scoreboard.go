package model

import (
	"cmp"
	"slices"
	"time"
)

// TeamStanding is one row of the scoreboard
type TeamStanding struct {
	Username string
	Points   uint64
	Solved   []PuzzleID // ascending
}

// PuzzleSummary is the public view of a puzzle (no solution)
type PuzzleSummary struct {
	ID    PuzzleID
	Value PuzzleValue
}

// Scoreboard is a point-in-time view of the competition
type Scoreboard struct {
	Teams     []TeamStanding
	Puzzles   []PuzzleSummary
	UpdatedAt time.Time
}

// BuildScoreboard ranks teams and lists puzzles.
// Teams are ordered by points descending, then username ascending.
// Puzzles are ordered by id ascending. Solved puzzles that are no longer
// in the catalog count for zero points.
func BuildScoreboard(teams Teams, puzzles Puzzles, at time.Time) Scoreboard {
	summaries := make([]PuzzleSummary, 0, len(puzzles))
	for _, id := range puzzles.SortedIDs() {
		summaries = append(summaries, PuzzleSummary{ID: id, Value: puzzles[id].Value})
	}

	standings := make([]TeamStanding, 0, len(teams))
	for name, solved := range teams {
		var points uint64
		for id := range solved {
			points += uint64(puzzles[id].Value)
		}
		standings = append(standings, TeamStanding{
			Username: name,
			Points:   points,
			Solved:   solved.Sorted(),
		})
	}
	slices.SortFunc(standings, func(a, b TeamStanding) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})

	return Scoreboard{
		Teams:     standings,
		Puzzles:   summaries,
		UpdatedAt: at,
	}
}
