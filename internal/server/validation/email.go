package validation

import (
	"regexp"
	"strings"
)

// Local part: dot-separated atoms free of <>()[]\.,;:@" and whitespace, or a
// quoted string. Domain: a bracketed dotted quad or hostname labels ending in
// a TLD of at least two letters.
var emailRe = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// ValidateEmail reports whether email looks like a deliverable address.
// Matching is case-insensitive.
func ValidateEmail(email string) bool {
	return emailRe.MatchString(strings.ToLower(email))
}

// NormalizeEmail is the canonical form used as the account key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
