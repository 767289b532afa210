package account

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword rejects passwords bcrypt cannot hash: empty ones and
// those over 72 bytes.
var ErrInvalidPassword = errors.New("invalid password")

// HashPassword encrypts the supplied plaintext with bcrypt.
func HashPassword(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword verifies plaintext against a stored hash.
func ComparePassword(hash, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
}
