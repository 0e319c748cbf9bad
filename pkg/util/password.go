package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced at registration and on password change.
const MinPasswordLength = 8

var ErrPasswordTooShort = errors.New("password is too short")

// bcryptCost is a var so tests can lower it.
var bcryptCost = 12

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// UseMinimumCost switches hashing to the cheapest bcrypt cost. Test helper.
func UseMinimumCost() {
	bcryptCost = bcrypt.MinCost
}
