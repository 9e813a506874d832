package request

import "encoding/json"

// JoinRequest is the request body for joining as a team
type JoinRequest struct {
	Username string `json:"username"`
}

// SubmitRequest is the request body for submitting a solution
type SubmitRequest struct {
	PuzzleID string `json:"puzzle_id"`
	Solution string `json:"solution"`
}

// LogoutRequest is the request body for logging out
type LogoutRequest struct {
	Wipe bool `json:"wipe"`
}

// SetAdminPasswordRequest is the request body for setting the admin password
type SetAdminPasswordRequest struct {
	Password string `json:"password"`
}

// PuzzleDefinition is one puzzle in an admin batch.
// Value is kept as a json.Number so non-integers can be rejected explicitly.
type PuzzleDefinition struct {
	Solution string      `json:"solution"`
	Value    json.Number `json:"value"`
}

// SetPuzzlesRequest is the request body for adding puzzles
type SetPuzzlesRequest struct {
	Password string                      `json:"password"`
	Puzzles  map[string]PuzzleDefinition `json:"puzzles"`
}
