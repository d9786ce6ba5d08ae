package sessions

import "time"

// Session is a durable server-side login record. Its ID doubles as the
// opaque cookie token. ExpiresAt is absolute - set once at creation and
// never extended on access.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"` // Audit only, never used for authorization
	UserAgent string    `json:"user_agent,omitempty"` // Audit only, never used for authorization
	CreatedAt time.Time `json:"created_at"`
}

// Info is the read-only projection of a live session joined with its
// owning user, consumed by the request authenticator and /me.
type Info struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	PictureURL string    `json:"picture_url,omitempty"`
	IsAdmin    bool      `json:"is_admin"`
	ExpiresAt  time.Time `json:"expires_at"`
}
