package server

import "context"

// RoleAdmin is the capability marker authorizing privileged routes.
const RoleAdmin = "admin"

// Principal is the security identity resolved for a request, from
// either a session cookie or a credential bearer token. Both schemes
// reconcile into this one shape; downstream authorization only looks
// here.
type Principal struct {
	UserID    string
	Email     string
	Name      string
	Username  string
	SessionID string // Empty for bearer-token principals
	Role      string // RoleAdmin only when the admin capability is held
}

// IsAdmin reports whether the principal carries the admin capability.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const contextKeyPrincipal ContextKey = "principal"

// PrincipalFromContext extracts the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(contextKeyPrincipal).(*Principal)
	return principal, ok && principal != nil
}

func withPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal, principal)
}
