package vault

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// NonceSize is the XChaCha20-Poly1305 nonce length
const NonceSize = chacha20poly1305.NonceSizeX

// HeaderSize is the length of the salt || nonce prefix of a sealed blob
const HeaderSize = SaltSize + NonceSize

// Errors
var (
	ErrCorruptHeader = errors.New("sealed blob header is truncated")
	ErrDecrypt       = errors.New("decryption failed: wrong password or tampered data")
	ErrNoKey         = errors.New("credential has no sealing key")
)

// Seal encrypts plaintext under the credential's key.
// The result is salt(32) || nonce(24) || ciphertext; every call draws a fresh nonce.
func Seal(plaintext []byte, cred *Credential) ([]byte, error) {
	if cred == nil || len(cred.key) != KeySize || len(cred.Salt) != SaltSize {
		return nil, ErrNoKey
	}

	aead, err := chacha20poly1305.NewX(cred.key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, HeaderSize+len(plaintext)+aead.Overhead())
	out = append(out, cred.Salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Open re-derives the key from the blob's embedded salt and password, then
// authenticates and decrypts. It never returns partial plaintext.
func Open(blob, password []byte, d *Deriver) ([]byte, error) {
	if len(blob) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptHeader, len(blob))
	}
	salt := blob[:SaltSize]
	nonce := blob[SaltSize:HeaderSize]
	ciphertext := blob[HeaderSize:]

	key, err := d.DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
