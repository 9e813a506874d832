package random

import (
	"crypto/rand"
	"encoding/base64"
)

// Random provides the randomness behind session tokens so it can be mocked for testing
type Random interface {
	// Token returns n random bytes rendered as unpadded base64url
	Token(n int) (string, error)
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns n bytes from crypto/rand as unpadded base64url
func (r *CryptoRandom) Token(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
