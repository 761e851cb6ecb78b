package auth

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-birthday-web/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrHashPassword, err)
	}
	return string(hashed), nil
}

// CheckPassword compares password with a bcrypt hash.
// A mismatch yields ErrInvalidCredentials.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("%s: %w", config.ErrHashPassword, err)
	}
}
