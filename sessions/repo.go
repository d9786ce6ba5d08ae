package sessions

import (
	"context"
	"time"

	"github.com/cataloghq/catalog-api/users"
)

// Repo is the persistence boundary for sessions. A missing session
// surfaces as errors.ErrSessionNotFound. DeleteExpired must be atomic
// at the storage level (delete-where-expired), so it can run
// concurrently with reads and creates.
type Repo interface {
	Insert(ctx context.Context, session *Session) error
	GetWithUser(ctx context.Context, sessionID string) (*Session, *users.User, error)
	Delete(ctx context.Context, sessionID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
