package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SecretSize is the number of random bytes behind a generated secret.
const SecretSize = 32

// GenerateSecret creates a random signing secret for session tokens.
// Format: base64 URL-safe encoding of SecretSize bytes, no padding (43 chars).
func GenerateSecret() (string, error) {
	bytes := make([]byte, SecretSize)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
