package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/sessions"
	"github.com/cataloghq/catalog-api/sessions/repofake"
	"github.com/cataloghq/catalog-api/users"
	userrepofake "github.com/cataloghq/catalog-api/users/repofake"
)

type storeFixture struct {
	userRepo    *userrepofake.FakeUserRepo
	sessionRepo *repofake.FakeSessionRepo
	store       *sessions.Store
	user        *users.User
	now         time.Time
}

// setupStoreFixture builds a store with an 8h TTL and a controllable
// clock, plus one persisted user to own the sessions.
func setupStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	f := &storeFixture{
		userRepo: userrepofake.NewFakeUserRepo(),
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.sessionRepo = repofake.NewFakeSessionRepo(f.userRepo)

	store, err := sessions.NewStore(f.sessionRepo, 8*time.Hour,
		sessions.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.store = store

	f.user = &users.User{
		ID:      uuid.New().String(),
		Email:   "jane@example.com",
		Name:    "Jane Doe",
		IsAdmin: true,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), f.user))
	return f
}

func TestStoreCreate(t *testing.T) {
	f := setupStoreFixture(t)
	ctx := context.Background()

	session, err := f.store.Create(ctx, f.user.ID, "203.0.113.9", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Equal(t, f.user.ID, session.UserID)
	require.Equal(t, f.now.Add(8*time.Hour), session.ExpiresAt)
	require.Equal(t, "203.0.113.9", session.IPAddress)
	require.Equal(t, "test-agent", session.UserAgent)

	other, err := f.store.Create(ctx, f.user.ID, "", "")
	require.NoError(t, err)
	require.NotEqual(t, session.ID, other.ID)
}

func TestStoreGet(t *testing.T) {
	ctx := context.Background()

	t.Run("live session projects user fields", func(t *testing.T) {
		f := setupStoreFixture(t)
		session, err := f.store.Create(ctx, f.user.ID, "", "")
		require.NoError(t, err)

		info, err := f.store.Get(ctx, session.ID)
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, session.ID, info.SessionID)
		require.Equal(t, f.user.ID, info.UserID)
		require.Equal(t, "jane@example.com", info.Email)
		require.Equal(t, "Jane Doe", info.Name)
		require.True(t, info.IsAdmin)
		require.Equal(t, session.ExpiresAt, info.ExpiresAt)
	})

	t.Run("unknown session resolves to nil", func(t *testing.T) {
		f := setupStoreFixture(t)
		info, err := f.store.Get(ctx, "no-such-session")
		require.NoError(t, err)
		require.Nil(t, info)
	})

	t.Run("expired session resolves to nil and is deleted", func(t *testing.T) {
		f := setupStoreFixture(t)
		session, err := f.store.Create(ctx, f.user.ID, "", "")
		require.NoError(t, err)

		// 8h TTL, clock now 9h past creation: expired an hour ago.
		f.now = f.now.Add(9 * time.Hour)

		info, err := f.store.Get(ctx, session.ID)
		require.NoError(t, err)
		require.Nil(t, info)

		// Deleted as a side effect, not merely hidden.
		_, _, err = f.sessionRepo.GetWithUser(ctx, session.ID)
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("expiry is absolute, not extended by reads", func(t *testing.T) {
		f := setupStoreFixture(t)
		session, err := f.store.Create(ctx, f.user.ID, "", "")
		require.NoError(t, err)

		f.now = f.now.Add(7 * time.Hour)
		info, err := f.store.Get(ctx, session.ID)
		require.NoError(t, err)
		require.NotNil(t, info)

		// Reading at hour 7 must not push the deadline past hour 8.
		f.now = f.now.Add(90 * time.Minute)
		info, err = f.store.Get(ctx, session.ID)
		require.NoError(t, err)
		require.Nil(t, info)
	})
}

func TestStoreDelete(t *testing.T) {
	f := setupStoreFixture(t)
	ctx := context.Background()

	session, err := f.store.Create(ctx, f.user.ID, "", "")
	require.NoError(t, err)

	existed, err := f.store.Delete(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, existed)

	// Idempotent second delete.
	existed, err = f.store.Delete(ctx, session.ID)
	require.NoError(t, err)
	require.False(t, existed)
}

func TestStoreSweepExpired(t *testing.T) {
	f := setupStoreFixture(t)
	ctx := context.Background()

	expired1, err := f.store.Create(ctx, f.user.ID, "", "")
	require.NoError(t, err)
	expired2, err := f.store.Create(ctx, f.user.ID, "", "")
	require.NoError(t, err)

	f.now = f.now.Add(9 * time.Hour)
	live, err := f.store.Create(ctx, f.user.ID, "", "")
	require.NoError(t, err)

	count, err := f.store.SweepExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	for _, id := range []string{expired1.ID, expired2.ID} {
		_, _, err = f.sessionRepo.GetWithUser(ctx, id)
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	}

	info, err := f.store.Get(ctx, live.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
}
