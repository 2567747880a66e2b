package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is 256 bits of entropy per token.
const tokenBytes = 32

// TokenGenerator produces opaque session tokens.
type TokenGenerator func() (string, error)

// NewOpaqueToken returns a URL-safe random token with no decodable structure.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
