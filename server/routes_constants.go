package server

// Route paths
const (
	RouteGoogleLogin     = "/api/auth/google/login"
	RouteGoogleCallback  = "/api/auth/google/callback"
	RouteMe              = "/api/auth/me"
	RouteLogout          = "/api/auth/logout"
	RouteCredentialLogin = "/api/auth/login"
	RouteHealth          = "/health"
	RouteAdminSweep      = "/api/admin/sessions/sweep"
)

// Cookie names for the short-lived PKCE transport. Destroyed on
// callback regardless of outcome.
const (
	cookiePKCEVerifier = "pkce_verifier"
	cookiePKCEState    = "pkce_state"
	cookieReturnURL    = "return_url"
)

const defaultReturnURL = "/"

// publicPathPrefixes bypass request authentication entirely: health,
// docs, the login/callback endpoints themselves, and read-only catalog
// browsing.
var publicPathPrefixes = []string{
	RouteHealth,
	RouteGoogleLogin,
	RouteGoogleCallback,
	RouteCredentialLogin,
	"/api/products",
	"/api/categories",
}
