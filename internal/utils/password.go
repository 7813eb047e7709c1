package utils

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// MaxPasswordBytes is the longest input bcrypt accepts, counted in bytes
const MaxPasswordBytes = 72

// PasswordCodec hashes and verifies user passwords with bcrypt
type PasswordCodec struct {
	cost int // bcrypt work factor
}

// NewPasswordCodec returns a codec with cost clamped to bcrypt's accepted range
func NewPasswordCodec(cost int) *PasswordCodec {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost // Out-of-range costs fall back to the library default
	}
	return &PasswordCodec{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext
func (p *PasswordCodec) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", err // Passwords over 72 bytes end up here
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash; malformed hashes never match
func (p *PasswordCodec) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
