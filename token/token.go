// Package token implements the stateless credential login path: a
// username/password check that mints a signed bearer token, and the
// verifier that turns such a token back into claims. No server-side
// record of issued tokens exists; possession of a validly signed,
// unexpired token is the whole proof.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the fixed claim set carried by a credential bearer token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwtlib.RegisteredClaims
}

// LoginResult is returned to a successfully authenticated credential
// client.
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
