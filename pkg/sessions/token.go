package sessions

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// tokenBytes is the identifier entropy. Session identifiers are bearer
// tokens, so they must be unguessable: 32 bytes = 256 bits.
const tokenBytes = 32

// NewToken generates a cryptographically random session identifier,
// base64url encoded without padding.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Signer signs session identifiers for transport inside cookies.
// Wire format: <id>.<hex hmac-sha256(id)>.
type Signer struct {
	secret []byte
}

// NewSigner creates a cookie signer with the given secret
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// Sign produces the cookie value for a session identifier
func (s *Signer) Sign(id string) string {
	return id + "." + s.signature(id)
}

// Parse verifies a cookie value and returns the embedded session identifier
func (s *Signer) Parse(value string) (string, error) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", fmt.Errorf("malformed session cookie")
	}
	if !hmac.Equal([]byte(sig), []byte(s.signature(id))) {
		return "", fmt.Errorf("session cookie signature mismatch")
	}
	return id, nil
}

func (s *Signer) signature(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
