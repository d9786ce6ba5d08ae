package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// AuthenticationMiddleware resolves the request principal from either the
// session cookie or a bearer token. It never rejects a request itself:
// anonymous requests reach the handler with no principal in the context,
// and per-route guards such as RequireAdmin enforce access.
func (s *Server) AuthenticationMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next(w, r)
			return
		}

		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && cookie.Value != "" {
			info, err := s.services.Sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Error().Err(err).Msg("[AuthenticationMiddleware] session lookup failed")
				http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
				return
			}
			if info != nil {
				role := ""
				if info.IsAdmin {
					role = RoleAdmin
				}
				r = r.WithContext(withPrincipal(r.Context(), &Principal{
					UserID:    info.UserID,
					Email:     info.Email,
					Name:      info.Name,
					SessionID: info.SessionID,
					Role:      role,
				}))
				next(w, r)
				return
			}
			// Stale cookie referencing a dead session.
			s.clearSessionCookie(w, r)
		}

		if token := bearerToken(r); token != "" {
			claims, err := s.services.Verifier.Verify(token)
			if err == nil {
				r = r.WithContext(withPrincipal(r.Context(), &Principal{
					UserID:   claims.Subject,
					Username: claims.Username,
					Role:     claims.Role,
				}))
			}
		}

		next(w, r)
	}
}

// RequireAdmin guards a route, rejecting anonymous requests with 401 and
// authenticated non-admin requests with 403.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !principal.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	}
}

func isPublicPath(path string) bool {
	lowered := strings.ToLower(path)
	for _, prefix := range publicPathPrefixes {
		if strings.HasPrefix(lowered, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
