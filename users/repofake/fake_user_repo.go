package repofake

import (
	"context"
	"strings"
	"sync"

	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users.Repo with the same uniqueness
// semantics as the SQLite implementation: one user per email and per
// username, matched case-insensitively.
type FakeUserRepo struct {
	byID map[string]*users.User
	lock sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{byID: make(map[string]*users.User)}
}

func (r *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, u := range r.byID {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (r *FakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, u := range r.byID {
		if u.Username != "" && strings.EqualFold(u.Username, username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (r *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, u := range r.byID {
		if user.Email != "" && strings.EqualFold(u.Email, user.Email) {
			return errors.ErrDuplicateEmail
		}
		if user.Username != "" && strings.EqualFold(u.Username, user.Username) {
			return errors.ErrDuplicateUsername
		}
	}
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return errors.ErrUserNotFound
	}
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}
