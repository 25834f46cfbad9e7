// Package validation holds the credential policy: password strength rules
// and the email address format. Everything here is pure.
package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 16

	// MaxCharOccurrences is how many times any single character may appear
	// in a password, counted over the whole string rather than in a row.
	MaxCharOccurrences = 3

	// SpecialCharacters is the closed set that satisfies the special character rule.
	SpecialCharacters = "!@#$%^&*"
)

// Password policy violations, checked in this order. The error text is meant
// to be shown to the user as is.
var (
	ErrPasswordLength     = errors.New("Password must be between 8 and 16 characters long.")
	ErrPasswordLowercase  = errors.New("Password must contain at least one lowercase letter.")
	ErrPasswordUppercase  = errors.New("Password must contain at least one uppercase letter.")
	ErrPasswordDigit      = errors.New("Password must contain at least one number.")
	ErrPasswordSpecial    = errors.New("Password must contain at least one special character (!@#$%^&*).")
	ErrPasswordRepetition = errors.New("Password must not contain the same character more than 3 times.")
)

// ValidatePassword returns nil when password satisfies every rule, otherwise
// the first violated rule: length, lowercase, uppercase, digit, special,
// repetition.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return ErrPasswordLength
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}

	switch {
	case !lower:
		return ErrPasswordLowercase
	case !upper:
		return ErrPasswordUppercase
	case !digit:
		return ErrPasswordDigit
	case !special:
		return ErrPasswordSpecial
	}

	counts := make(map[rune]int, n)
	for _, r := range password {
		counts[r]++
		if counts[r] > MaxCharOccurrences {
			return ErrPasswordRepetition
		}
	}

	return nil
}
