package users

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cataloghq/catalog-api/internal/errors"
)

// bcryptCost keeps verification cost bounded under login load.
const bcryptCost = 11

// HashPassword hashes a password with bcrypt. A blank password is a
// usage error, not an authentication failure.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.ErrBlankPassword
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", errors.Wrapf(err, "[HashPassword] bcrypt.GenerateFromPassword")
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a password against a stored bcrypt hash.
// A blank password is a usage error. A blank or malformed stored hash
// simply does not verify.
func CheckPasswordHash(password, hash string) (bool, error) {
	if strings.TrimSpace(password) == "" {
		return false, errors.ErrBlankPassword
	}
	if strings.TrimSpace(hash) == "" {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
