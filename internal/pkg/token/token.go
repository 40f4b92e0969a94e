package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultByteLength yields 192 bits of entropy per token, encoded as a
// 32-character URL-safe string.
const DefaultByteLength = 24

// Generate returns a URL-safe random token with n bytes of entropy.
func Generate(n int) (string, error) {
	if n <= 0 {
		n = DefaultByteLength
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
