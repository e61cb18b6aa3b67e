package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// GenToken returns a URL-safe random token of n bytes of entropy. Used for
// email verification and password reset links stored in Redis.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
