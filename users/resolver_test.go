package users_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cataloghq/catalog-api/googleauth"
	"github.com/cataloghq/catalog-api/internal/config"
	"github.com/cataloghq/catalog-api/users"
	"github.com/cataloghq/catalog-api/users/repofake"
)

func testIdentity() *googleauth.Identity {
	return &googleauth.Identity{
		SubjectID:     "google-123",
		Email:         "jane@example.com",
		Name:          "Jane Doe",
		PictureURL:    "https://example.com/jane.png",
		EmailVerified: true,
	}
}

func newResolver(t *testing.T, repo users.Repo, adminEmails []string, options ...users.ResolverOption) *users.Resolver {
	t.Helper()
	resolver, err := users.NewResolver(repo, config.NewAdminEmails(adminEmails), options...)
	require.NoError(t, err)
	return resolver
}

func TestResolve_CreatesUserOnFirstLogin(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeUserRepo()
	resolver := newResolver(t, repo, nil)

	user, err := resolver.Resolve(ctx, testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "jane@example.com", user.Email)
	require.Equal(t, "Jane Doe", user.Name)
	require.False(t, user.IsAdmin)
	require.Nil(t, user.UpdatedAt)

	stored, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestResolve_EmailLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeUserRepo()
	resolver := newResolver(t, repo, nil)

	first, err := resolver.Resolve(ctx, testIdentity())
	require.NoError(t, err)

	identity := testIdentity()
	identity.Email = "JANE@Example.COM"
	second, err := resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestResolve_UpdatesChangedProfile(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeUserRepo()
	resolver := newResolver(t, repo, nil)

	first, err := resolver.Resolve(ctx, testIdentity())
	require.NoError(t, err)

	identity := testIdentity()
	identity.Name = "Jane Q. Doe"
	identity.PictureURL = "https://example.com/jane2.png"
	second, err := resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Jane Q. Doe", second.Name)
	require.Equal(t, "https://example.com/jane2.png", second.PictureURL)
	require.NotNil(t, second.UpdatedAt)

	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Q. Doe", stored.Name)
}

func TestResolve_UnchangedProfileDoesNotStampUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeUserRepo()
	resolver := newResolver(t, repo, nil)

	_, err := resolver.Resolve(ctx, testIdentity())
	require.NoError(t, err)

	again, err := resolver.Resolve(ctx, testIdentity())
	require.NoError(t, err)
	require.Nil(t, again.UpdatedAt)
}

func TestResolve_AdminFlagRecomputedEveryLogin(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeUserRepo()

	plain := newResolver(t, repo, nil)
	user, err := plain.Resolve(ctx, testIdentity())
	require.NoError(t, err)
	require.False(t, user.IsAdmin)

	// Allow-list gains the email: next login promotes without a manual edit.
	promoted := newResolver(t, repo, []string{"Jane@Example.com"})
	user, err = promoted.Resolve(ctx, testIdentity())
	require.NoError(t, err)
	require.True(t, user.IsAdmin)

	// Allow-list loses the email: next login demotes.
	user, err = plain.Resolve(ctx, testIdentity())
	require.NoError(t, err)
	require.False(t, user.IsAdmin)
}

func TestResolve_ConcurrentFirstLoginsYieldOneUser(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeUserRepo()
	resolver := newResolver(t, repo, nil)

	const attempts = 16
	results := make([]*users.User, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Resolve(ctx, testIdentity())
		}(i)
	}
	wg.Wait()

	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		require.Equal(t, results[0].ID, results[i].ID, "all callers observe the same user")
	}
}

func TestResolve_NowTimeInjection(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeUserRepo()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	resolver := newResolver(t, repo, nil, users.WithNowTime(func() time.Time { return fixed }))

	user, err := resolver.Resolve(ctx, testIdentity())
	require.NoError(t, err)
	require.Equal(t, fixed, user.CreatedAt)
}
