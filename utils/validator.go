package utils

import (
	"math"
	"net/mail"
	"strings"
)

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address parses and carries no display name
func ValidateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	if !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@")+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePagePath accepts router paths such as /sleep-stories
func ValidatePagePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return ErrInvalidPagePath
	}
	return nil
}

// ValidateAmount rejects zero, negative and non-finite amounts
func ValidateAmount(amount float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

// RoundCents rounds a monetary value to two decimals
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
