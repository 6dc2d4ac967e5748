package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const shareTokenBytes = 32

// GenerateShareToken returns an unguessable URL-safe token.
func GenerateShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
