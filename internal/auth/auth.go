// Package auth provides API token generation and verification.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the bcrypt hashing cost.
const BcryptCost = 12

var (
	// ErrMissingToken is returned when a request carries no token.
	ErrMissingToken = errors.New("missing api token")

	// ErrInvalidToken is returned when a token does not match the configured hash.
	ErrInvalidToken = errors.New("invalid api token")
)

// GenerateToken creates a random 32-byte token, hex encoded.
func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken hashes a token using bcrypt.
func HashToken(token string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing token: %w", err)
	}
	return string(bytes), nil
}

// CheckToken compares a token with a hash.
func CheckToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
	return err == nil
}

// Verifier checks tokens against one bcrypt hash. Tokens that already
// passed are remembered by digest so bcrypt runs once per token.
type Verifier struct {
	hash string

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
}

// NewVerifier creates a Verifier. An empty hash disables verification.
func NewVerifier(hash string) *Verifier {
	return &Verifier{
		hash:     hash,
		verified: make(map[[sha256.Size]byte]struct{}),
	}
}

// Enabled reports whether a hash is configured.
func (v *Verifier) Enabled() bool {
	return v.hash != ""
}

// Verify returns nil when the token matches, or when verification is disabled.
func (v *Verifier) Verify(token string) error {
	if !v.Enabled() {
		return nil
	}
	if token == "" {
		return ErrMissingToken
	}

	digest := sha256.Sum256([]byte(token))
	v.mu.RLock()
	_, ok := v.verified[digest]
	v.mu.RUnlock()
	if ok {
		return nil
	}

	if !CheckToken(token, v.hash) {
		return ErrInvalidToken
	}

	v.mu.Lock()
	v.verified[digest] = struct{}{}
	v.mu.Unlock()
	return nil
}
