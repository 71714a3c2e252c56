package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently ignores input past 72 bytes; we reject instead so two
// long passwords sharing a prefix can never verify against each other.
const maxPasswordBytes = 72

var (
	ErrPasswordEmpty   = errors.New("password must not be empty")
	ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", maxPasswordBytes)
)

// PasswordHasher wraps bcrypt with a fixed cost factor. Construct it once
// at startup and share it; it is immutable and safe for concurrent use.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored hash. A malformed or
// foreign hash yields false, never an error; callers treat every failure
// as a credential mismatch.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
