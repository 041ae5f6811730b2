// Package cryptox implements the password hashing primitive shared with the
// original deployment: hex-encoded SHA-256 over password bytes plus a static
// salt. Existing rows in the users table were written with this exact scheme,
// so the salt value is part of the wire/storage contract.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DefaultSalt matches the salt baked into the original deployment's database.
const DefaultSalt = "SmartLearn_Salt_2025"

// HashPassword returns the hex-encoded salted SHA-256 of password.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword recomputes the hash for a candidate password and compares it
// against the stored hash in constant time.
func VerifyPassword(password, salt, storedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
