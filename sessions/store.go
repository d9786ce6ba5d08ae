// Package sessions is the authority for "who is logged in": it creates,
// resolves and expires the opaque server-side sessions behind the
// session cookie.
package sessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/cataloghq/catalog-api/internal/errors"
)

const tokenLength = 32

// Store wraps a Repo with TTL policy and lazy expiration.
type Store struct {
	repo    Repo
	ttl     time.Duration
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

func NewStore(repo Repo, ttl time.Duration, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[NewStore] session repo is required")
	}
	if ttl <= 0 {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[NewStore] session TTL must be positive")
	}

	store := &Store{
		repo:    repo,
		ttl:     ttl,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

// Create persists a new session with an unguessable random ID and an
// absolute expiry of now + TTL.
func (s *Store) Create(ctx context.Context, userID, ipAddress, userAgent string) (*Session, error) {
	id, err := newToken()
	if err != nil {
		return nil, errors.Wrapf(err, "[Store.Create] token generation")
	}

	now := s.nowTime().UTC()
	session := &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		return nil, errors.Wrapf(err, "[Store.Create] Insert")
	}
	return session, nil
}

// Get resolves a session ID to its read-only view. An expired session
// is deleted as a side effect and reported as absent; correctness never
// depends on the background sweep.
func (s *Store) Get(ctx context.Context, sessionID string) (*Info, error) {
	session, user, err := s.repo.GetWithUser(ctx, sessionID)
	if errors.Is(err, errors.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Store.Get] GetWithUser")
	}

	if session.ExpiresAt.Before(s.nowTime().UTC()) {
		if _, err := s.repo.Delete(ctx, sessionID); err != nil {
			return nil, errors.Wrapf(err, "[Store.Get] deleting expired session")
		}
		return nil, nil
	}

	return &Info{
		SessionID:  session.ID,
		UserID:     session.UserID,
		Email:      user.Email,
		Name:       user.Name,
		PictureURL: user.PictureURL,
		IsAdmin:    user.IsAdmin,
		ExpiresAt:  session.ExpiresAt,
	}, nil
}

// Delete removes a session. Idempotent; reports whether a row existed.
func (s *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	existed, err := s.repo.Delete(ctx, sessionID)
	if err != nil {
		return false, errors.Wrapf(err, "[Store.Delete] Delete")
	}
	return existed, nil
}

// SweepExpired bulk-deletes every expired session. Storage hygiene
// only - meant for a periodic ticker, never the request path.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteExpired(ctx, s.nowTime().UTC())
	if err != nil {
		return 0, errors.Wrapf(err, "[Store.SweepExpired] DeleteExpired")
	}
	return count, nil
}

func newToken() (string, error) {
	bytes := make([]byte, tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
