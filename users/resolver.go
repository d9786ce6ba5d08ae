package users

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cataloghq/catalog-api/googleauth"
	"github.com/cataloghq/catalog-api/internal/config"
	"github.com/cataloghq/catalog-api/internal/errors"
)

// Resolver maps a validated external identity to a local User record,
// creating one on first sight.
type Resolver struct {
	repo        Repo
	adminEmails config.AdminEmails
	nowTime     func() time.Time // nowTime function (injectable for testing)
}

// ResolverOption defines a function type to modify the Resolver instance.
type ResolverOption func(*Resolver)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.nowTime = nowFunc
	}
}

func NewResolver(repo Repo, adminEmails config.AdminEmails, options ...ResolverOption) (*Resolver, error) {
	if repo == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[NewResolver] user repo is required")
	}

	resolver := &Resolver{
		repo:        repo,
		adminEmails: adminEmails,
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(resolver)
	}
	return resolver, nil
}

// Resolve finds the User for an identity assertion by email
// (case-insensitive), creating it on first login. Two concurrent first
// logins for the same email race on the unique email constraint; the
// loser re-reads the winner's row instead of failing. Any persistence
// error that is not that specific conflict propagates. The admin flag
// is always recomputed from the configured allow-list, so demotions
// take effect on the next login.
func (r *Resolver) Resolve(ctx context.Context, identity *googleauth.Identity) (*User, error) {
	user, err := r.repo.GetByEmail(ctx, identity.Email)
	if errors.Is(err, errors.ErrUserNotFound) {
		return r.create(ctx, identity)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Resolver.Resolve] GetByEmail")
	}
	return r.updateIfChanged(ctx, user, identity)
}

func (r *Resolver) create(ctx context.Context, identity *googleauth.Identity) (*User, error) {
	user := &User{
		ID:         uuid.New().String(),
		Email:      identity.Email,
		Name:       identity.Name,
		PictureURL: identity.PictureURL,
		IsAdmin:    r.adminEmails.Contains(identity.Email),
		IsActive:   true,
		CreatedAt:  r.nowTime().UTC(),
	}

	err := r.repo.Create(ctx, user)
	if errors.Is(err, errors.ErrDuplicateEmail) {
		// Lost the concurrent first-login race: the row exists now.
		existing, readErr := r.repo.GetByEmail(ctx, identity.Email)
		if readErr != nil {
			return nil, errors.Wrapf(readErr, "[Resolver.create] retry lookup after duplicate email")
		}
		return existing, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Resolver.create] Create")
	}
	return user, nil
}

func (r *Resolver) updateIfChanged(ctx context.Context, user *User, identity *googleauth.Identity) (*User, error) {
	changed := false

	if user.Name != identity.Name || user.PictureURL != identity.PictureURL {
		user.Name = identity.Name
		user.PictureURL = identity.PictureURL
		now := r.nowTime().UTC()
		user.UpdatedAt = &now
		changed = true
	}

	if isAdmin := r.adminEmails.Contains(identity.Email); user.IsAdmin != isAdmin {
		user.IsAdmin = isAdmin
		changed = true
	}

	if !changed {
		return user, nil
	}
	if err := r.repo.Update(ctx, user); err != nil {
		return nil, errors.Wrapf(err, "[Resolver.updateIfChanged] Update")
	}
	return user, nil
}
