package token

import (
	"context"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cataloghq/catalog-api/internal/config"
	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/users"
)

// Issuer verifies local credentials and mints signed bearer tokens.
type Issuer struct {
	repo    users.Repo
	config  config.JWTConfig
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

func NewIssuer(repo users.Repo, cfg config.JWTConfig, options ...IssuerOption) (*Issuer, error) {
	if repo == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[NewIssuer] user repo is required")
	}
	if cfg.GetJWTSecret() == "" {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[NewIssuer] JWT secret is required")
	}

	issuer := &Issuer{
		repo:    repo,
		config:  cfg,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(issuer)
	}
	return issuer, nil
}

// Login checks a username and password and mints a bearer token. An
// unknown user, an inactive user and a wrong password all fail the same
// way - (nil, nil) - so the response never reveals which check tripped.
// Blank credentials are a usage error rejected before any I/O.
func (i *Issuer) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.ErrBlankUsername
	}
	if strings.TrimSpace(password) == "" {
		return nil, errors.ErrBlankPassword
	}

	normalized := users.NormalizeUsername(username)

	user, err := i.repo.GetByUsername(ctx, normalized)
	if errors.Is(err, errors.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Issuer.Login] GetByUsername")
	}

	if !user.IsActive {
		log.Warn().Str("username", normalized).Msg("login attempt for inactive user")
		return nil, nil
	}

	ok, err := users.CheckPasswordHash(password, user.PasswordHash)
	if err != nil {
		return nil, errors.Wrapf(err, "[Issuer.Login] CheckPasswordHash")
	}
	if !ok {
		return nil, nil
	}

	now := i.nowTime().UTC()
	expiresAt := now.Add(i.config.GetJWTExpiry())

	claims := Claims{
		Username: normalized,
		Role:     user.Role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.config.GetJWTIssuer(),
			Audience:  jwtlib.ClaimStrings{i.config.GetJWTAudience()},
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).
		SignedString([]byte(i.config.GetJWTSecret()))
	if err != nil {
		return nil, errors.Wrapf(err, "[Issuer.Login] signing token")
	}

	return &LoginResult{
		Token:     signed,
		Username:  normalized,
		ExpiresAt: expiresAt,
	}, nil
}
