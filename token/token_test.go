package token_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/token"
	"github.com/cataloghq/catalog-api/users"
	"github.com/cataloghq/catalog-api/users/repofake"
)

const (
	testSecret   = "test-signing-secret"
	testIssuer   = "catalog-api-test"
	testAudience = "catalog-api-test"
	testPassword = "S3curePassword"
)

type jwtConfig struct {
	secret string
	expiry time.Duration
}

func (c jwtConfig) GetJWTSecret() string        { return c.secret }
func (c jwtConfig) GetJWTIssuer() string        { return testIssuer }
func (c jwtConfig) GetJWTAudience() string      { return testAudience }
func (c jwtConfig) GetJWTExpiry() time.Duration { return c.expiry }

type tokenFixture struct {
	repo     *repofake.FakeUserRepo
	issuer   *token.Issuer
	verifier *token.Verifier
	user     *users.User
}

func setupTokenFixture(t *testing.T, options ...token.IssuerOption) *tokenFixture {
	t.Helper()

	cfg := jwtConfig{secret: testSecret, expiry: 24 * time.Hour}
	repo := repofake.NewFakeUserRepo()

	issuer, err := token.NewIssuer(repo, cfg, options...)
	require.NoError(t, err)
	verifier, err := token.NewVerifier(cfg)
	require.NoError(t, err)

	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)

	user := &users.User{
		ID:           uuid.New().String(),
		Username:     "alice",
		PasswordHash: hash,
		Role:         "admin",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), user))

	return &tokenFixture{repo: repo, issuer: issuer, verifier: verifier, user: user}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success mints a verifiable token", func(t *testing.T) {
		f := setupTokenFixture(t)
		result, err := f.issuer.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Equal(t, "alice", result.Username)
		require.Len(t, strings.Split(result.Token, "."), 3)

		claims, err := f.verifier.Verify(result.Token)
		require.NoError(t, err)
		require.Equal(t, f.user.ID, claims.Subject)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, "admin", claims.Role)
		require.NotEmpty(t, claims.ID)
		require.NotNil(t, claims.IssuedAt)
	})

	t.Run("username normalization is case-insensitive", func(t *testing.T) {
		f := setupTokenFixture(t)

		upper, err := f.issuer.Login(ctx, "Alice", testPassword)
		require.NoError(t, err)
		require.NotNil(t, upper)

		padded, err := f.issuer.Login(ctx, "  ALICE  ", testPassword)
		require.NoError(t, err)
		require.NotNil(t, padded)

		upperClaims, err := f.verifier.Verify(upper.Token)
		require.NoError(t, err)
		paddedClaims, err := f.verifier.Verify(padded.Token)
		require.NoError(t, err)
		require.Equal(t, upperClaims.Subject, paddedClaims.Subject)
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		f := setupTokenFixture(t)

		wrongPw, err := f.issuer.Login(ctx, "alice", "wrong-pw")
		require.NoError(t, err)
		require.Nil(t, wrongPw)

		noUser, err := f.issuer.Login(ctx, "nouser", "whatever")
		require.NoError(t, err)
		require.Nil(t, noUser)
	})

	t.Run("inactive user fails closed", func(t *testing.T) {
		f := setupTokenFixture(t)
		f.user.IsActive = false
		require.NoError(t, f.repo.Update(ctx, f.user))

		result, err := f.issuer.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		require.Nil(t, result)
	})

	t.Run("blank credentials are usage errors", func(t *testing.T) {
		f := setupTokenFixture(t)

		_, err := f.issuer.Login(ctx, "", testPassword)
		require.ErrorIs(t, err, errors.ErrBlankUsername)

		_, err = f.issuer.Login(ctx, "alice", "  ")
		require.ErrorIs(t, err, errors.ErrBlankPassword)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects garbage", func(t *testing.T) {
		f := setupTokenFixture(t)
		_, err := f.verifier.Verify("not-a-token")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("rejects a tampered signature", func(t *testing.T) {
		f := setupTokenFixture(t)
		result, err := f.issuer.Login(ctx, "alice", testPassword)
		require.NoError(t, err)

		parts := strings.Split(result.Token, ".")
		tampered := parts[0] + "." + parts[1] + ".AAAA"
		_, err = f.verifier.Verify(tampered)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		f := setupTokenFixture(t)
		otherVerifier, err := token.NewVerifier(jwtConfig{secret: "other-secret", expiry: time.Hour})
		require.NoError(t, err)

		result, err := f.issuer.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		_, err = otherVerifier.Verify(result.Token)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("rejects an expired token with zero leeway", func(t *testing.T) {
		past := time.Now().Add(-48 * time.Hour)
		f := setupTokenFixture(t, token.WithNowTime(func() time.Time { return past }))

		result, err := f.issuer.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		require.True(t, result.ExpiresAt.Before(time.Now()))

		_, err = f.verifier.Verify(result.Token)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})
}
