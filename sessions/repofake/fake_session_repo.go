package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/sessions"
	"github.com/cataloghq/catalog-api/users"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo joining against a user
// repo, mirroring the SQLite implementation's semantics.
type FakeSessionRepo struct {
	userRepo users.Repo
	sessions map[string]*sessions.Session
	lock     sync.RWMutex
}

func NewFakeSessionRepo(userRepo users.Repo) *FakeSessionRepo {
	return &FakeSessionRepo{
		userRepo: userRepo,
		sessions: make(map[string]*sessions.Session),
	}
}

func (r *FakeSessionRepo) Insert(_ context.Context, session *sessions.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *FakeSessionRepo) GetWithUser(ctx context.Context, sessionID string) (*sessions.Session, *users.User, error) {
	r.lock.RLock()
	session, ok := r.sessions[sessionID]
	if !ok {
		r.lock.RUnlock()
		return nil, nil, errors.ErrSessionNotFound
	}
	copied := *session
	r.lock.RUnlock()

	user, err := r.userRepo.GetByID(ctx, copied.UserID)
	if err != nil {
		return nil, nil, err
	}
	return &copied, user, nil
}

func (r *FakeSessionRepo) Delete(_ context.Context, sessionID string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	_, existed := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	return existed, nil
}

func (r *FakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var count int64
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}
