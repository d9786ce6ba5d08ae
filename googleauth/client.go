// Package googleauth drives the PKCE-hardened authorization-code flow
// against Google: building the authorization URL and exchanging a
// callback code for a validated identity assertion.
package googleauth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/cataloghq/catalog-api/internal/config"
	"github.com/cataloghq/catalog-api/internal/errors"
)

const challengeMethodS256 = "S256"

// Client wraps the provider's OAuth2 endpoints and ID token verifier.
type Client struct {
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewClient discovers the provider configuration
// (.well-known/openid-configuration) and prepares the token verifier
// bound to the configured client ID.
func NewClient(ctx context.Context, cfg config.GoogleConfig) (*Client, error) {
	provider, err := oidc.NewProvider(ctx, cfg.GetGoogleIssuer())
	if err != nil {
		return nil, errors.Wrapf(err, "[googleauth.NewClient] provider discovery")
	}

	return &Client{
		oauth2Config: oauth2.Config{
			ClientID:     cfg.GetGoogleClientID(),
			ClientSecret: cfg.GetGoogleClientSecret(),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.GetGoogleClientID()}),
	}, nil
}

// AuthCodeURL builds the provider authorization URL for one login
// attempt: response_type=code, S256 challenge, offline access and
// forced consent.
func (c *Client) AuthCodeURL(state, codeChallenge, redirectURI string) string {
	return c.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", challengeMethodS256),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code plus PKCE verifier for a
// validated identity assertion. A provider rejection or an ID token
// that fails cryptographic validation returns (nil, nil); the caller
// surfaces both as a generic authentication failure. Anything else is
// unexpected and propagates.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (*Identity, error) {
	token, err := c.oauth2Config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			log.Error().
				Int("status", retrieveErr.Response.StatusCode).
				Msg("token exchange failed")
			return nil, nil
		}
		return nil, errors.Wrapf(err, "[Client.Exchange] token endpoint")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		log.Warn().Msg("token exchange returned no ID token")
		return nil, nil
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		log.Warn().Err(err).Msg("invalid ID token")
		return nil, nil
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		// Unparseable claims after a valid signature point at
		// misconfiguration rather than attacker input.
		return nil, errors.Wrapf(err, "[Client.Exchange] decoding ID token claims")
	}

	name := claims.Name
	if name == "" {
		name = claims.Email
	}

	return &Identity{
		SubjectID:     idToken.Subject,
		Email:         claims.Email,
		Name:          name,
		PictureURL:    claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}
