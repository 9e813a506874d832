package mocks

import (
	"errors"
	"sync"

	"github.com/mcoot/apollo/internal/dependencies/random"
)

// ErrTokensExhausted is returned once every queued token has been handed out
var ErrTokensExhausted = errors.New("mock random: no tokens queued")

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued token
func (r *MockRandom) Token(n int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	if len(r.tokens) == 0 {
		return "", ErrTokensExhausted
	}
	t := r.tokens[0]
	r.tokens = r.tokens[1:]
	return t, nil
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, values...)
}

// FailWith makes every subsequent Token call return err
func (r *MockRandom) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
