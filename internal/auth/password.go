package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateSalt returns a fresh 32-byte salt, hex encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashPassword derives the stored credential: HMAC-SHA256 keyed by the
// per-user salt, hex encoded.
func HashPassword(salt, password string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPassword recomputes the hash with the stored salt and compares in
// constant time.
func VerifyPassword(salt, storedHash, password string) bool {
	return hmac.Equal([]byte(HashPassword(salt, password)), []byte(storedHash))
}
