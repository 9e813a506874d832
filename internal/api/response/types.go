package response

import (
	"time"

	"github.com/mcoot/apollo/internal/model"
)

// Health is the liveness response
type Health struct {
	Status string `json:"status"`
}

// EventTitle is the configured name of the competition
type EventTitle struct {
	Title string `json:"title"`
}

// Puzzle is the public view of a puzzle
type Puzzle struct {
	ID    string `json:"id"`
	Value uint32 `json:"value"`
}

// Team is one scoreboard row
type Team struct {
	Username string   `json:"username"`
	Points   uint64   `json:"points"`
	Solved   []string `json:"solved"`
}

// Scoreboard represents the competition state in API responses
type Scoreboard struct {
	Teams     []Team    `json:"teams"`
	Puzzles   []Puzzle  `json:"puzzles"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreboardFromModel converts model.Scoreboard
func ScoreboardFromModel(b model.Scoreboard) Scoreboard {
	teams := make([]Team, len(b.Teams))
	for i, t := range b.Teams {
		solved := make([]string, len(t.Solved))
		for j, id := range t.Solved {
			solved[j] = string(id)
		}
		teams[i] = Team{
			Username: t.Username,
			Points:   t.Points,
			Solved:   solved,
		}
	}

	puzzles := make([]Puzzle, len(b.Puzzles))
	for i, p := range b.Puzzles {
		puzzles[i] = Puzzle{ID: string(p.ID), Value: uint32(p.Value)}
	}

	return Scoreboard{
		Teams:     teams,
		Puzzles:   puzzles,
		UpdatedAt: b.UpdatedAt,
	}
}

// Join is returned when a team logs in
type Join struct {
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

// AuthState describes who the caller is
type AuthState struct {
	Authenticated    bool   `json:"authenticated"`
	Username         string `json:"username,omitempty"`
	AdminPasswordSet bool   `json:"admin_password_set"`
}

// Submit is returned for a correct solution
type Submit struct {
	PuzzleID string `json:"puzzle_id"`
	Solved   bool   `json:"solved"`
}

// PuzzlesAdded is returned when the admin adds a batch
type PuzzlesAdded struct {
	Added int `json:"added"`
}
