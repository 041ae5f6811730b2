// Package validate holds the pure input-format checks the protocol layer
// runs before touching the store. The rules mirror the original client and
// server checks so both ends agree on what a well-formed field is.
package validate

import (
	"regexp"
	"unicode"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe    = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

// PasswordPolicy names a password-strength configuration.
type PasswordPolicy struct {
	Name      string
	MinLength int
}

// Standard requires at least 8 characters; Relaxed is the named 6-character
// variant kept for deployments that predate the stricter rule. Both require
// at least one letter and one digit.
var (
	Standard = PasswordPolicy{Name: "standard", MinLength: 8}
	Relaxed  = PasswordPolicy{Name: "relaxed", MinLength: 6}
)

// PolicyByName resolves a configured policy name, falling back to Standard.
func PolicyByName(name string) PasswordPolicy {
	if name == Relaxed.Name {
		return Relaxed
	}
	return Standard
}

// Username reports whether s is 4-20 characters, starts with a letter, and
// contains only letters, digits, and underscores.
func Username(s string) bool {
	if len(s) < 4 || len(s) > 20 {
		return false
	}
	return usernameRe.MatchString(s)
}

// Password reports whether s satisfies the policy: minimum length plus at
// least one letter and one digit.
func Password(s string, policy PasswordPolicy) bool {
	if len(s) < policy.MinLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Email reports whether s has the local@domain.tld shape.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Phone reports whether s is an 11-digit number with a mobile prefix.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}
