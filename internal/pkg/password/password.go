package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the shortest accepted password
	MinLength = 6
)

// ErrTooShort is returned for passwords under MinLength
var ErrTooShort = errors.New("password must be at least 6 characters")

// cost is lowered by tests through SetCost
var cost = DefaultCost

// SetCost overrides the bcrypt cost, clamped to bcrypt's bounds
func SetCost(c int) {
	switch {
	case c < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case c > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	default:
		cost = c
	}
}

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Validate checks if password meets requirements
func Validate(password string) error {
	if len(password) < MinLength {
		return ErrTooShort
	}
	return nil
}
