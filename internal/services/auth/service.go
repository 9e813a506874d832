package auth

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/apollo/internal/dependencies/random"
	"github.com/mcoot/apollo/internal/model"
)

// sessionIDBytes is the amount of randomness in a session id (128 bits)
const sessionIDBytes = 16

// Authority maps opaque session ids to usernames.
// A session id is a capability: whoever presents it acts as that username.
type Authority struct {
	logger *slog.Logger
	random random.Random

	mu       sync.RWMutex
	sessions map[model.SessionID]string
	byUser   map[string]model.SessionID
}

// New creates an empty Authority
func New(logger *slog.Logger, rnd random.Random) *Authority {
	return &Authority{
		logger:   logger.With(slog.String("component", "auth")),
		random:   rnd,
		sessions: make(map[model.SessionID]string),
		byUser:   make(map[string]model.SessionID),
	}
}

// Create opens a session for username.
// Fails with ErrAlreadyLoggedIn if the username already holds one.
func (a *Authority) Create(username string) (model.SessionID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.byUser[username]; ok {
		return "", model.ErrAlreadyLoggedIn
	}

	var sid model.SessionID
	for {
		token, err := a.random.Token(sessionIDBytes)
		if err != nil {
			return "", fmt.Errorf("generate session id: %w", err)
		}
		if _, taken := a.sessions[model.SessionID(token)]; !taken {
			sid = model.SessionID(token)
			break
		}
		a.logger.Warn("session id collision, regenerating")
	}

	a.sessions[sid] = username
	a.byUser[username] = sid
	return sid, nil
}

// Resolve returns the username a session authenticates
func (a *Authority) Resolve(sid model.SessionID) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	username, ok := a.sessions[sid]
	if !ok {
		return "", model.ErrInvalidSession
	}
	return username, nil
}

// Revoke removes a session and returns the username it belonged to
func (a *Authority) Revoke(sid model.SessionID) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	username, ok := a.sessions[sid]
	if !ok {
		return "", model.ErrSessionNotFound
	}
	delete(a.sessions, sid)
	delete(a.byUser, username)
	return username, nil
}

// SessionFor returns the active session of username, if any
func (a *Authority) SessionFor(username string) (model.SessionID, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	sid, ok := a.byUser[username]
	return sid, ok
}

// Count returns the number of active sessions
func (a *Authority) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions)
}

// Export returns a copy of the session table
func (a *Authority) Export() model.Sessions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return model.Sessions(a.sessions).Clone()
}

// Replace swaps the whole session table. If the table maps one username to
// several sessions only the lexically smallest id is kept.
func (a *Authority) Replace(sessions model.Sessions) {
	fresh := make(map[model.SessionID]string, len(sessions))
	byUser := make(map[string]model.SessionID, len(sessions))
	for sid, username := range sessions {
		if prev, ok := byUser[username]; ok {
			a.logger.Warn("dropping duplicate session for user", slog.String("username", username))
			if prev < sid {
				continue
			}
			delete(fresh, prev)
		}
		fresh[sid] = username
		byUser[username] = sid
	}

	a.mu.Lock()
	a.sessions = fresh
	a.byUser = byUser
	a.mu.Unlock()
}
