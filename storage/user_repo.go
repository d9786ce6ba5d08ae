package storage

import (
	"context"
	"database/sql"

	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/users"
)

var _ users.Repo = (*UserRepo)(nil)

// UserRepo implements users.Repo on SQLite.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, name, picture_url, is_admin, username, password_hash, role, is_active, created_at, updated_at`

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	return scanUser(row)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE`, username)
	return scanUser(row)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		nullString(user.Email),
		user.Name,
		nullString(user.PictureURL),
		user.IsAdmin,
		nullString(user.Username),
		user.PasswordHash,
		user.Role,
		user.IsActive,
		formatTime(user.CreatedAt),
		nullTime(user.UpdatedAt),
	)
	if isUniqueViolation(err, "email") {
		return errors.ErrDuplicateEmail
	}
	if isUniqueViolation(err, "username") {
		return errors.ErrDuplicateUsername
	}
	if err != nil {
		return errors.Wrapf(err, "[UserRepo.Create] insert")
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, user *users.User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, picture_url = ?, is_admin = ?,
			username = ?, password_hash = ?, role = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		nullString(user.Email),
		user.Name,
		nullString(user.PictureURL),
		user.IsAdmin,
		nullString(user.Username),
		user.PasswordHash,
		user.Role,
		user.IsActive,
		nullTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return errors.Wrapf(err, "[UserRepo.Update] update")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "[UserRepo.Update] rows affected")
	}
	if affected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	var (
		user       users.User
		email      sql.NullString
		pictureURL sql.NullString
		username   sql.NullString
		createdAt  string
		updatedAt  sql.NullString
	)

	err := row.Scan(&user.ID, &email, &user.Name, &pictureURL, &user.IsAdmin,
		&username, &user.PasswordHash, &user.Role, &user.IsActive, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[scanUser] scan")
	}

	user.Email = email.String
	user.PictureURL = pictureURL.String
	user.Username = username.String

	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, errors.Wrapf(err, "[scanUser] created_at")
	}
	if updatedAt.Valid {
		parsed, err := parseTime(updatedAt.String)
		if err != nil {
			return nil, errors.Wrapf(err, "[scanUser] updated_at")
		}
		user.UpdatedAt = &parsed
	}
	return &user, nil
}
