package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoPassword is returned when comparing against a user that never set a password.
var ErrNoPassword = errors.New("user has no password")

// HashPassword hashes a user password. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks plain against the stored hash.
func ComparePassword(hashed, plain string) error {
	if hashed == "" {
		return ErrNoPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
