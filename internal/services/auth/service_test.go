package auth

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/apollo/internal/dependencies/mocks"
	"github.com/mcoot/apollo/internal/dependencies/random"
	"github.com/mcoot/apollo/internal/model"
	"github.com/mcoot/apollo/internal/testutil"
)

type AuthoritySuite struct {
	suite.Suite
	authority *Authority
}

func TestAuthoritySuite(t *testing.T) {
	suite.Run(t, new(AuthoritySuite))
}

func (s *AuthoritySuite) SetupTest() {
	s.authority = New(testutil.NopLogger(), random.New())
}

// Create tests

func (s *AuthoritySuite) TestCreateReturnsResolvableSession() {
	sid, err := s.authority.Create("alice")
	s.Require().NoError(err)
	s.NotEmpty(sid)

	username, err := s.authority.Resolve(sid)
	s.Require().NoError(err)
	s.Equal("alice", username)
}

func (s *AuthoritySuite) TestCreateRejectsSecondSessionForUser() {
	_, err := s.authority.Create("alice")
	s.Require().NoError(err)

	_, err = s.authority.Create("alice")
	s.ErrorIs(err, model.ErrAlreadyLoggedIn)
	s.Equal(1, s.authority.Count())
}

func (s *AuthoritySuite) TestCreateGeneratesDistinctIDs() {
	seen := make(map[model.SessionID]bool)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		sid, err := s.authority.Create(name)
		s.Require().NoError(err)
		s.False(seen[sid])
		seen[sid] = true
	}
}

func (s *AuthoritySuite) TestCreateRegeneratesOnCollision() {
	rnd := mocks.NewMockRandom()
	rnd.QueueToken("dup", "dup", "fresh")
	a := New(testutil.NopLogger(), rnd)

	first, err := a.Create("alice")
	s.Require().NoError(err)
	s.Equal(model.SessionID("dup"), first)

	second, err := a.Create("bob")
	s.Require().NoError(err)
	s.Equal(model.SessionID("fresh"), second)
}

func (s *AuthoritySuite) TestCreatePropagatesIDSourceError() {
	boom := errors.New("entropy exhausted")
	rnd := mocks.NewMockRandom()
	rnd.FailWith(boom)
	a := New(testutil.NopLogger(), rnd)

	_, err := a.Create("alice")
	s.ErrorIs(err, boom)
	s.Equal(0, a.Count())
}

func (s *AuthoritySuite) TestCreateConcurrentSameUserOnlyOneWins() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.authority.Create("alice"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
	s.Equal(1, s.authority.Count())
}

// Resolve / Revoke tests

func (s *AuthoritySuite) TestResolveUnknownSession() {
	_, err := s.authority.Resolve("nope")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *AuthoritySuite) TestRevokeRemovesSession() {
	sid, _ := s.authority.Create("alice")

	username, err := s.authority.Revoke(sid)
	s.Require().NoError(err)
	s.Equal("alice", username)

	_, err = s.authority.Resolve(sid)
	s.ErrorIs(err, model.ErrInvalidSession)
	_, ok := s.authority.SessionFor("alice")
	s.False(ok)
}

func (s *AuthoritySuite) TestRevokeUnknownSession() {
	_, err := s.authority.Revoke("nope")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *AuthoritySuite) TestUserCanRejoinAfterRevoke() {
	sid, _ := s.authority.Create("alice")
	_, _ = s.authority.Revoke(sid)

	again, err := s.authority.Create("alice")
	s.Require().NoError(err)
	s.NotEqual(sid, again)
}

// Export / Replace tests

func (s *AuthoritySuite) TestExportIsACopy() {
	sid, _ := s.authority.Create("alice")

	exported := s.authority.Export()
	s.Equal(model.Sessions{sid: "alice"}, exported)

	delete(exported, sid)
	_, err := s.authority.Resolve(sid)
	s.NoError(err)
}

func (s *AuthoritySuite) TestReplaceSwapsTable() {
	old, _ := s.authority.Create("alice")

	s.authority.Replace(model.Sessions{"s1": "bob", "s2": "carol"})

	_, err := s.authority.Resolve(old)
	s.ErrorIs(err, model.ErrInvalidSession)

	username, err := s.authority.Resolve("s1")
	s.Require().NoError(err)
	s.Equal("bob", username)

	sid, ok := s.authority.SessionFor("carol")
	s.True(ok)
	s.Equal(model.SessionID("s2"), sid)
}

func (s *AuthoritySuite) TestReplaceKeepsOneSessionPerUser() {
	s.authority.Replace(model.Sessions{"s2": "bob", "s1": "bob"})

	s.Equal(1, s.authority.Count())
	sid, ok := s.authority.SessionFor("bob")
	s.True(ok)
	s.Equal(model.SessionID("s1"), sid)
}

func TestCryptoRandomTokenIsURLSafe(t *testing.T) {
	token, err := random.New().Token(sessionIDBytes)
	require.NoError(t, err)
	assert.Len(t, token, 22)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}
