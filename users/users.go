package users

import (
	"strings"
	"time"
)

// User is the durable account record. A user arrives through one of two
// paths: Google sign-in populates the profile fields (Email, Name,
// PictureURL, IsAdmin) while credential accounts carry Username,
// PasswordHash, Role and IsActive. Exactly one User exists per distinct
// email.
type User struct {
	ID         string     `json:"id,omitempty"`
	Email      string     `json:"email,omitempty"`
	Name       string     `json:"name,omitempty"`
	PictureURL string     `json:"picture_url,omitempty"`
	IsAdmin    bool       `json:"is_admin,omitempty"` // Recomputed from the admin allow-list at every login, never sticky
	Username   string     `json:"username,omitempty"` // Normalized lowercase, credential login path only
	PasswordHash string   `json:"-"`                  // Never serialize
	Role       string     `json:"role,omitempty"`
	IsActive   bool       `json:"is_active,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"` // Set only on change
}

// NormalizeUsername applies the canonical form used for credential
// lookups: trimmed and lowercased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
