package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length
func GenerateSecureID(prefix string, length int) (string, error) {
	// The byte length required is about 3/4 of the desired string length.
	byteLength := (length * 3 / 4) + 2
	bytes := make([]byte, byteLength)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := base64.URLEncoding.EncodeToString(bytes)
	encoded = strings.TrimRight(encoded, "=")

	if len(encoded) > length {
		encoded = encoded[:length]
	}

	return fmt.Sprintf("%s_%s", prefix, encoded), nil
}

// NewConversationID returns a random UUIDv4 string.
func NewConversationID() string {
	return uuid.NewString()
}

// NormalizeConversationID parses a client supplied id and returns its canonical form.
func NormalizeConversationID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
