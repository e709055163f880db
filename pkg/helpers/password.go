package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHashFormat marks a stored hash that bcrypt cannot parse.
// It should never surface from data written through Hasher.Hash.
var ErrInvalidHashFormat = errors.New("invalid password hash format")

// DefaultBcryptCost trades brute-force resistance against login latency.
const DefaultBcryptCost = 12

// Hasher wraps bcrypt with a fixed work factor.
type Hasher struct {
	Cost int
}

// NewHasher clamps the cost into bcrypt's supported range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash hashes the plain text password with a random salt. The returned
// string embeds the algorithm tag, cost and salt.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a stored hash with a plain password in constant time.
// A mismatch returns (false, nil); only a malformed stored hash is an error.
func (h *Hasher) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHashFormat
	}
}
