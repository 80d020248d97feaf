// Package security holds password hashing, access tokens and the abuse
// guards in front of the credential endpoints.
package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	coreerrors "gatehouse/internal/core/errors"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 8

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher clamps cost into bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Cost() int { return h.cost }

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", coreerrors.Wrap(err, coreerrors.CodeValidationError, "password is too long")
		}
		return "", coreerrors.Wrap(err, coreerrors.CodeInternal, "hash password")
	}
	return string(hash), nil
}

// Compare reports whether password matches hash.
func (h *Hasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
