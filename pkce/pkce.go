// Package pkce implements RFC 7636 Proof Key for Code Exchange material
// for one login attempt: a code verifier, its S256 challenge, and an
// anti-CSRF state value.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/cataloghq/catalog-api/internal/errors"
)

const (
	verifierLength = 64
	stateLength    = 32

	// Unreserved URL-safe characters permitted by RFC 7636 section 4.1.
	urlSafeCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"
)

// Data holds the transient per-attempt values. It lives only in
// short-lived cookies and is never persisted.
type Data struct {
	CodeVerifier  string
	CodeChallenge string
	State         string
}

// Generate produces a fresh verifier/challenge/state triple using a
// cryptographically secure RNG. The state is an independent draw,
// unrelated to the verifier.
func Generate() (Data, error) {
	verifier, err := randomString(verifierLength)
	if err != nil {
		return Data{}, errors.Wrapf(err, "[pkce.Generate] verifier")
	}

	state, err := randomString(stateLength)
	if err != nil {
		return Data{}, errors.Wrapf(err, "[pkce.Generate] state")
	}

	return Data{
		CodeVerifier:  verifier,
		CodeChallenge: Challenge(verifier),
		State:         state,
	}, nil
}

// Challenge derives the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) without padding.
func Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func randomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	result := make([]byte, length)
	for i, b := range bytes {
		result[i] = urlSafeCharacters[int(b)%len(urlSafeCharacters)]
	}
	return string(result), nil
}
