package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Color formatters
var (
	titleFmt  = color.New(color.FgCyan, color.Bold).SprintFunc()
	leaderFmt = color.New(color.FgYellow, color.Bold).SprintFunc()
	okFmt     = color.New(color.FgGreen).SprintFunc()
	dimFmt    = color.New(color.Faint).SprintFunc()
	errFmt    = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintf(o.w, "%s %s\n", errFmt("Error:"), err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printJSONLine(data any) {
	line, _ := json.Marshal(data)
	fmt.Fprintln(o.w, string(line))
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case JoinResult:
		o.printJoinResult(v)
	case AuthState:
		o.printAuthState(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case PuzzlesAdded:
		fmt.Fprintf(o.w, "Added %d puzzle(s)\n", v.Added)
	case Scoreboard:
		o.printScoreboard(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s (%s)\n", okFmt(v.Status), v.Latency)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// JoinResult response type (matches API)
type JoinResult struct {
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

// AuthState response type
type AuthState struct {
	Authenticated    bool   `json:"authenticated"`
	Username         string `json:"username,omitempty"`
	AdminPasswordSet bool   `json:"admin_password_set"`
}

// SubmitResult response type
type SubmitResult struct {
	PuzzleID string `json:"puzzle_id"`
	Solved   bool   `json:"solved"`
}

// PuzzlesAdded response type
type PuzzlesAdded struct {
	Added int `json:"added"`
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

// Scoreboard response type
type Scoreboard struct {
	Title     string    `json:"title,omitempty"`
	Teams     []Team    `json:"teams"`
	Puzzles   []Puzzle  `json:"puzzles"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// EventTitle response type
type EventTitle struct {
	Title string `json:"title"`
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Fprintf(o.w, "Joined as %s\n", titleFmt(j.Username))
	fmt.Fprintf(o.w, "Token: %s\n", j.SessionToken)
}

func (o *Output) printAuthState(a AuthState) {
	if a.Authenticated {
		fmt.Fprintf(o.w, "Logged in as %s\n", titleFmt(a.Username))
	} else {
		fmt.Fprintln(o.w, "Not logged in")
	}
	if !a.AdminPasswordSet {
		fmt.Fprintln(o.w, dimFmt("Admin password not set"))
	}
}

func (o *Output) printSubmitResult(s SubmitResult) {
	if s.Solved {
		fmt.Fprintf(o.w, "%s %s\n", okFmt("Correct!"), s.PuzzleID)
	}
}

func (o *Output) printScoreboard(b Scoreboard) {
	if b.Title != "" {
		fmt.Fprintln(o.w, titleFmt(b.Title))
	}

	total := uint64(0)
	for _, p := range b.Puzzles {
		total += uint64(p.Value)
	}
	fmt.Fprintf(o.w, "Puzzles: %d (%d points available)\n", len(b.Puzzles), total)

	if len(b.Teams) == 0 {
		fmt.Fprintln(o.w, dimFmt("No teams yet"))
		return
	}

	width := len("Team")
	for _, t := range b.Teams {
		width = max(width, len(t.Username))
	}

	fmt.Fprintf(o.w, "%-4s  %-*s  %8s  %s\n", "#", width, "Team", "Points", "Solved")
	for i, t := range b.Teams {
		row := fmt.Sprintf("%-4d  %-*s  %8d  %s", i+1, width, t.Username, t.Points, strings.Join(t.Solved, ", "))
		if i == 0 && t.Points > 0 {
			row = leaderFmt(row)
		}
		fmt.Fprintln(o.w, row)
	}

	if !b.UpdatedAt.IsZero() {
		fmt.Fprintln(o.w, dimFmt("Updated "+b.UpdatedAt.Local().Format("2006-01-02 15:04:05")))
	}
}
