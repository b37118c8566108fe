package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Session tokens are stored as PBKDF2-SHA256 hashes
const (
	tokenHashIterations = 10000
	tokenHashBytes      = 32
)

// RandomHex returns n random lowercase hex characters.
func RandomHex(n int) (string, error) {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:n], nil
}

// HashToken derives the stored hash of a session token.
func HashToken(token, salt string) string {
	return hex.EncodeToString(
		pbkdf2.Key([]byte(token), []byte(salt), tokenHashIterations, tokenHashBytes, sha256.New),
	)
}

// VerifyToken compares in constant time.
func VerifyToken(token, salt, expectedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token, salt)), []byte(expectedHash)) == 1
}

// Fingerprint is the unsalted SHA-256 of a high-entropy secret, used to key
// caches without storing the secret itself.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
