// Package competition holds the live competition state: teams, puzzles and
// the admin credential. Every exported method is safe for concurrent use.
package competition

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/apollo/internal/dependencies/clock"
	"github.com/mcoot/apollo/internal/model"
	"github.com/mcoot/apollo/internal/services/auth"
	"github.com/mcoot/apollo/internal/snapshot"
	"github.com/mcoot/apollo/internal/vault"
)

// Observer is told about every successful mutation.
// StateChanged is called after the store lock is released and must not block.
type Observer interface {
	StateChanged()
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func()

// StateChanged calls f
func (f ObserverFunc) StateChanged() { f() }

// Store is the authoritative competition state.
//
// Lock order: mu, then the session authority's own lock.
type Store struct {
	sessions *auth.Authority
	deriver  *vault.Deriver
	clock    clock.Clock
	logger   *slog.Logger

	mu         sync.RWMutex
	teams      model.Teams
	puzzles    model.Puzzles
	credential *vault.Credential

	observersMu sync.Mutex
	observers   []Observer
}

// New creates an empty Store
func New(sessions *auth.Authority, deriver *vault.Deriver, clock clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		sessions: sessions,
		deriver:  deriver,
		clock:    clock,
		logger:   logger.With(slog.String("component", "competition")),
		teams:    make(model.Teams),
		puzzles:  make(model.Puzzles),
	}
}

// Subscribe registers an observer for state changes
func (s *Store) Subscribe(o Observer) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Store) notify() {
	s.observersMu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.observersMu.Unlock()

	for _, o := range observers {
		o.StateChanged()
	}
}

// Join logs a team in, creating it on first join.
// A rejoining team keeps its solved puzzles.
func (s *Store) Join(ctx context.Context, username string) (model.SessionID, error) {
	if err := model.ValidateUsername(username); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	sid, err := s.sessions.Create(username)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	_, existing := s.teams[username]
	if !existing {
		s.teams[username] = model.NewSolvedSet()
	}
	s.mu.Unlock()

	s.logger.Info("team joined",
		slog.String("username", username),
		slog.Bool("new_team", !existing),
		slog.Int("active_sessions", s.sessions.Count()),
	)
	s.notify()
	return sid, nil
}

// Submit checks a solution and records the puzzle as solved for the
// session's team. The check and the insert happen under one lock.
func (s *Store) Submit(ctx context.Context, sid model.SessionID, puzzleID model.PuzzleID, solution string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	username, err := s.sessions.Resolve(sid)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	puzzle, ok := s.puzzles[puzzleID]
	if !ok {
		s.mu.Unlock()
		return model.ErrPuzzleNotFound
	}
	if puzzle.Solution != solution {
		s.mu.Unlock()
		s.logger.Debug("wrong answer",
			slog.String("username", username),
			slog.String("puzzle_id", string(puzzleID)),
		)
		return model.ErrWrongAnswer
	}

	solved, ok := s.teams[username]
	if !ok {
		solved = model.NewSolvedSet()
		s.teams[username] = solved
	}
	if !solved.Add(puzzleID) {
		s.mu.Unlock()
		return model.ErrAlreadySolved
	}
	s.mu.Unlock()

	s.logger.Info("puzzle solved",
		slog.String("username", username),
		slog.String("puzzle_id", string(puzzleID)),
		slog.Int("value", int(puzzle.Value)),
	)
	s.notify()
	return nil
}

// SetPuzzles adds a batch of puzzles on behalf of the admin.
// The batch is applied entirely or not at all; existing ids are never overwritten.
func (s *Store) SetPuzzles(ctx context.Context, password string, batch model.Puzzles) error {
	if err := s.checkAdmin(ctx, password); err != nil {
		return err
	}

	if len(batch) == 0 {
		return model.ErrEmptyBatch
	}
	for id, p := range batch {
		if err := id.Validate(); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("puzzle %q: %w", id, err)
		}
	}

	s.mu.Lock()
	for id := range batch {
		if _, exists := s.puzzles[id]; exists {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", model.ErrPuzzleExists, id)
		}
	}
	for id, p := range batch {
		s.puzzles[id] = p
	}
	s.mu.Unlock()

	s.logger.Info("puzzles added", slog.Int("count", len(batch)))
	s.notify()
	return nil
}

// checkAdmin verifies the admin password without holding the store lock
func (s *Store) checkAdmin(ctx context.Context, password string) error {
	cred := s.Credential()
	if cred == nil {
		return model.ErrAdminPasswordUnset
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := s.deriver.VerifyCredential([]byte(password), cred)
	if err != nil {
		return fmt.Errorf("verify admin password: %w", err)
	}
	if !ok {
		s.logger.Warn("admin password rejected")
		return model.ErrInvalidCredentials
	}
	return nil
}

// Logout ends a session. With wipe the team and its progress are deleted too.
func (s *Store) Logout(ctx context.Context, sid model.SessionID, wipe bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	username, err := s.sessions.Revoke(sid)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if wipe {
		delete(s.teams, username)
	}
	s.mu.Unlock()

	s.logger.Info("team logged out",
		slog.String("username", username),
		slog.Bool("wipe", wipe),
		slog.Int("active_sessions", s.sessions.Count()),
	)
	s.notify()
	return nil
}

// WhoAmI returns the username a session authenticates
func (s *Store) WhoAmI(ctx context.Context, sid model.SessionID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.sessions.Resolve(sid)
}

// Scoreboard returns a consistent public view of the competition
func (s *Store) Scoreboard(_ context.Context) model.Scoreboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.BuildScoreboard(s.teams, s.puzzles, s.clock.Now())
}

// SetAdminPassword sets the admin password. It can succeed only once.
func (s *Store) SetAdminPassword(ctx context.Context, password string) error {
	if password == "" {
		return model.ErrInvalidPassword
	}
	if s.AdminPasswordSet() {
		return model.ErrAdminPasswordSet
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cred, err := s.deriver.NewCredential([]byte(password))
	if err != nil {
		return fmt.Errorf("derive admin credential: %w", err)
	}

	s.mu.Lock()
	if s.credential != nil {
		s.mu.Unlock()
		return model.ErrAdminPasswordSet
	}
	s.credential = cred
	s.mu.Unlock()

	s.logger.Info("admin password set")
	s.notify()
	return nil
}

// AdminPasswordSet reports whether the admin credential exists
func (s *Store) AdminPasswordSet() bool {
	return s.Credential() != nil
}

// Credential returns the admin credential, or nil while unset
func (s *Store) Credential() *vault.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Export returns a deep copy of everything that is persisted
func (s *Store) Export() snapshot.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.State{
		Teams:    s.teams.Clone(),
		Puzzles:  s.puzzles.Clone(),
		Sessions: s.sessions.Export(),
	}
}

// Restore replaces the teams, puzzles and sessions with state.
// Observers are not notified.
func (s *Store) Restore(state snapshot.State) {
	teams := state.Teams.Clone()
	puzzles := state.Puzzles.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = teams
	s.puzzles = puzzles
	s.sessions.Replace(state.Sessions)
}
