package membership

import (
	"strings"
	"testing"
)

func TestGenerateTokenFormat(t *testing.T) {
	token, err := generateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if len(token) != 16 {
		t.Errorf("token length = %d, want 16", len(token))
	}
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	for _, r := range token {
		if !strings.ContainsRune(alphabet, r) {
			t.Errorf("token contains %q, outside base32 alphabet", r)
		}
	}
	if CanonicalToken(token) != token {
		t.Error("generated tokens should already be canonical")
	}
}

func TestGenerateTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateToken()
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestCanonicalToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "abcd2345efgh6789", "ABCD2345EFGH6789"},
		{"whitespace", "  ABCD2345EFGH6789\n", "ABCD2345EFGH6789"},
		{"hyphen groups", "ABCD-2345-EFGH-6789", "ABCD2345EFGH6789"},
		{"legacy long token", "abcdefghij2345674567klmnop", "ABCDEFGHIJ2345674567KLMNOP"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalToken(tt.in); got != tt.want {
				t.Errorf("CanonicalToken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
