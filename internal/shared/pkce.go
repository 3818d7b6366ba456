package shared

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateVerifier produces a random PKCE code verifier of exactly length
// characters drawn from [A-Za-z0-9].
func GenerateVerifier(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: verifier length must be positive", ErrInvalidArgument)
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(verifierAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate verifier: %w", err)
		}
		buf[i] = verifierAlphabet[n.Int64()]
	}

	return string(buf), nil
}

// DeriveChallenge computes the S256 code challenge for a verifier: the
// SHA-256 digest of its UTF-8 bytes, base64url-encoded without padding.
func DeriveChallenge(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}

// GenerateState produces a random state token for CSRF protection on the
// authorization redirect.
func GenerateState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
