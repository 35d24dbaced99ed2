package services

import (
	"errors"
	"unicode"
)

var ErrWeakPassword = errors.New("weak password")

const minPasswordRunes = 8

// ValidatePasswordStrength requires at least eight characters mixing an
// upper-case letter, a lower-case letter and a digit. Length is counted in
// runes so multi-byte alphabets are not penalized.
func ValidatePasswordStrength(password string) error {
	runes := []rune(password)
	if len(runes) < minPasswordRunes {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range runes {
		hasUpper = hasUpper || unicode.IsUpper(char)
		hasLower = hasLower || unicode.IsLower(char)
		hasDigit = hasDigit || unicode.IsDigit(char)
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
