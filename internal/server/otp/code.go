// Package otp issues the six-digit one-time codes used for email
// verification and password resets.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	MinCode = 100000
	MaxCode = 999999
)

var span = big.NewInt(MaxCode - MinCode + 1)

// GenerateCode returns a code drawn uniformly from [MinCode, MaxCode], so it
// always has exactly six digits.
func GenerateCode() (int, error) {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return MinCode + int(n.Int64()), nil
}

// Format renders a code the way it is stored and mailed.
func Format(code int) string {
	return strconv.Itoa(code)
}

// Generate is GenerateCode followed by Format.
func Generate() (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}
	return Format(code), nil
}
