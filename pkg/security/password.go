package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DigestLength is the length of a hex encoded SHA-256 digest.
const DigestLength = sha256.Size * 2

// HashPassword returns the unsalted SHA-256 hex digest of password.
// The same input always yields the same digest.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether password hashes to digest.
// Digests of the wrong length are rejected without hashing.
func CheckPassword(digest, password string) bool {
	if len(digest) != DigestLength {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(HashPassword(password))) == 1
}
