package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ValidatePIN checks if a string is a valid 6-digit PIN.
func ValidatePIN(pin string) bool {
	if len(pin) != 6 {
		return false
	}
	for _, char := range pin {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

// HashPIN returns the bcrypt hash stored in place of the PIN.
func HashPIN(pin string) (string, error) {
	if !ValidatePIN(pin) {
		return "", fmt.Errorf("pin must be 6 digits")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

// PINMatches reports whether provided is the PIN behind hash.
func PINMatches(hash, provided string) bool {
	if hash == "" || provided == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(provided)) == nil
}
