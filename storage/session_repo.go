package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/sessions"
	"github.com/cataloghq/catalog-api/users"
)

var _ sessions.Repo = (*SessionRepo)(nil)

// SessionRepo implements sessions.Repo on SQLite.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Insert(ctx context.Context, session *sessions.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, ip_address, user_agent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		formatTime(session.ExpiresAt),
		nullString(session.IPAddress),
		nullString(session.UserAgent),
		formatTime(session.CreatedAt),
	)
	if err != nil {
		return errors.Wrapf(err, "[SessionRepo.Insert] insert")
	}
	return nil
}

func (r *SessionRepo) GetWithUser(ctx context.Context, sessionID string) (*sessions.Session, *users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT s.id, s.user_id, s.expires_at, s.ip_address, s.user_agent, s.created_at,
			`+prefixedUserColumns+`
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.id = ?`, sessionID)

	var (
		session   sessions.Session
		expiresAt string
		ipAddress sql.NullString
		userAgent sql.NullString
		createdAt string

		user          users.User
		email         sql.NullString
		pictureURL    sql.NullString
		username      sql.NullString
		userCreatedAt string
		userUpdatedAt sql.NullString
	)

	err := row.Scan(
		&session.ID, &session.UserID, &expiresAt, &ipAddress, &userAgent, &createdAt,
		&user.ID, &email, &user.Name, &pictureURL, &user.IsAdmin,
		&username, &user.PasswordHash, &user.Role, &user.IsActive, &userCreatedAt, &userUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, errors.ErrSessionNotFound
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[SessionRepo.GetWithUser] scan")
	}

	session.IPAddress = ipAddress.String
	session.UserAgent = userAgent.String
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, nil, errors.Wrapf(err, "[SessionRepo.GetWithUser] expires_at")
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, nil, errors.Wrapf(err, "[SessionRepo.GetWithUser] created_at")
	}

	user.Email = email.String
	user.PictureURL = pictureURL.String
	user.Username = username.String
	if user.CreatedAt, err = parseTime(userCreatedAt); err != nil {
		return nil, nil, errors.Wrapf(err, "[SessionRepo.GetWithUser] user created_at")
	}
	if userUpdatedAt.Valid {
		parsed, err := parseTime(userUpdatedAt.String)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[SessionRepo.GetWithUser] user updated_at")
		}
		user.UpdatedAt = &parsed
	}

	return &session, &user, nil
}

func (r *SessionRepo) Delete(ctx context.Context, sessionID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return false, errors.Wrapf(err, "[SessionRepo.Delete] delete")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "[SessionRepo.Delete] rows affected")
	}
	return affected > 0, nil
}

// DeleteExpired is a single delete-where-expired statement, atomic with
// respect to concurrent reads and creates.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, errors.Wrapf(err, "[SessionRepo.DeleteExpired] delete")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "[SessionRepo.DeleteExpired] rows affected")
	}
	return count, nil
}

const prefixedUserColumns = `u.id, u.email, u.name, u.picture_url, u.is_admin, u.username, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at`
