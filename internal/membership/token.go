package membership

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Join codes are 16 characters of unpadded base32 (10 random bytes, 80 bits
// of entropy). Base32 keeps codes safe in a URL path segment and free of
// characters that get mangled when read aloud or typed.
const tokenBytes = 10

var tokenEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return tokenEncoding.EncodeToString(buf), nil
}

// CanonicalToken normalizes a user-supplied code for storage and lookup:
// whitespace trimmed, separator hyphens dropped, uppercased. Matching is
// therefore case-insensitive, and older long-format codes still resolve
// because they pass through the same normalization.
func CanonicalToken(raw string) string {
	t := strings.TrimSpace(raw)
	t = strings.ReplaceAll(t, "-", "")
	return strings.ToUpper(t)
}
