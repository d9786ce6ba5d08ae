package token

import (
	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/cataloghq/catalog-api/internal/config"
	"github.com/cataloghq/catalog-api/internal/errors"
)

// Verifier statelessly validates credential bearer tokens: signature,
// issuer, audience and expiry, with zero clock-skew tolerance.
type Verifier struct {
	config config.JWTConfig
	parser *jwtlib.Parser
}

func NewVerifier(cfg config.JWTConfig) (*Verifier, error) {
	if cfg.GetJWTSecret() == "" {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[NewVerifier] JWT secret is required")
	}

	return &Verifier{
		config: cfg,
		parser: jwtlib.NewParser(
			jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
			jwtlib.WithIssuer(cfg.GetJWTIssuer()),
			jwtlib.WithAudience(cfg.GetJWTAudience()),
			jwtlib.WithExpirationRequired(),
		),
	}, nil
}

// Verify parses and validates a raw bearer token. Every rejection maps
// to errors.ErrInvalidToken; callers do not learn which check failed.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
		return []byte(v.config.GetJWTSecret()), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}
