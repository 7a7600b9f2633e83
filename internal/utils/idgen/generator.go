package idgen

import (
	"crypto/rand"
	"fmt"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// The random part only uses 0-9 and a-z.
func GenerateSecureID(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("id length must be positive, got %d", length)
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := make([]byte, length)
	for i := range bytes {
		encoded[i] = charset[int(bytes[i])%len(charset)]
	}

	if prefix == "" {
		return string(encoded), nil
	}
	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// ItemID returns a new identifier for a stored item.
func ItemID() (string, error) {
	return GenerateSecureID("item", 20)
}
