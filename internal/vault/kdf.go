// Package vault derives keys from the admin password and seals state blobs.
//
// One Argon2id call per derivation produces master key material; two
// independent values are expanded from it with HKDF under distinct info
// strings: a verification hash (answers "is this the admin password") and a
// sealing key (encrypts snapshots). Neither value reveals the other.
package vault

import (
	"crypto/hkdf"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of the random KDF salt in bytes
	SaltSize = 32
	// KeySize is the length of derived keys in bytes
	KeySize = 32

	infoVerify = "apollo/v1/verify"
	infoSeal   = "apollo/v1/snapshot-key"
)

// Errors
var (
	ErrInvalidParams = errors.New("invalid kdf parameters")
	ErrInvalidSalt   = errors.New("invalid kdf salt")
)

// Params configures Argon2id. Every caller in a process must share one
// Params value: snapshots can only be opened with the params that sealed them.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultParams returns the production KDF cost
func DefaultParams() Params {
	return Params{
		Time:      3,
		MemoryKiB: 64 * 1024,
		Threads:   4,
	}
}

// Validate checks that argon2 will accept the parameters
func (p Params) Validate() error {
	if p.Time < 1 || p.Threads < 1 || p.MemoryKiB < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: time=%d memory=%dKiB threads=%d", ErrInvalidParams, p.Time, p.MemoryKiB, p.Threads)
	}
	return nil
}

// Deriver turns passwords into verification hashes and sealing keys
type Deriver struct {
	params Params
}

// NewDeriver creates a Deriver with the given parameters
func NewDeriver(params Params) (*Deriver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Deriver{params: params}, nil
}

// Credential is the admin credential state: a salt, the verification hash
// and the sealing key derived alongside it. The plaintext password is never kept.
type Credential struct {
	Salt       []byte
	VerifyHash []byte
	key        []byte
}

// NewCredential draws a fresh salt and derives both values for password
func (d *Deriver) NewCredential(password []byte) (*Credential, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	verify, key, err := d.derive(password, salt)
	if err != nil {
		return nil, err
	}

	return &Credential{
		Salt:       salt,
		VerifyHash: verify,
		key:        key,
	}, nil
}

// HashForVerification derives the verification hash for password under salt
func (d *Deriver) HashForVerification(password, salt []byte) ([]byte, error) {
	verify, key, err := d.derive(password, salt)
	if err != nil {
		return nil, err
	}
	clear(key)
	return verify, nil
}

// DeriveKey derives the sealing key for password under salt
func (d *Deriver) DeriveKey(password, salt []byte) ([]byte, error) {
	verify, key, err := d.derive(password, salt)
	if err != nil {
		return nil, err
	}
	clear(verify)
	return key, nil
}

// Verify recomputes the verification hash and compares it in constant time
func (d *Deriver) Verify(password, salt, expected []byte) (bool, error) {
	got, err := d.HashForVerification(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, expected) == 1, nil
}

// VerifyCredential checks password against a stored credential
func (d *Deriver) VerifyCredential(password []byte, cred *Credential) (bool, error) {
	return d.Verify(password, cred.Salt, cred.VerifyHash)
}

func (d *Deriver) derive(password, salt []byte) (verify, key []byte, err error) {
	if len(salt) != SaltSize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSalt, len(salt), SaltSize)
	}

	master := argon2.IDKey(password, salt, d.params.Time, d.params.MemoryKiB, d.params.Threads, KeySize)
	defer clear(master)

	verify, err = hkdf.Key(sha256.New, master, salt, infoVerify, KeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("derive verification hash: %w", err)
	}
	key, err = hkdf.Key(sha256.New, master, salt, infoSeal, KeySize)
	if err != nil {
		clear(verify)
		return nil, nil, fmt.Errorf("derive sealing key: %w", err)
	}
	return verify, key, nil
}
