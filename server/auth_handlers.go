package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/pkce"
)

// pkceCookieTTL bounds how long a login attempt may sit between the
// redirect to Google and the callback.
const pkceCookieTTL = 5 * time.Minute

// GoogleLoginHandler starts the authorization-code flow: it mints the
// PKCE material, parks it in short-lived cookies and redirects the
// browser to Google's consent screen.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := pkce.Generate()
		if err != nil {
			log.Error().Err(err).Msg("[GoogleLoginHandler] PKCE generation failed")
			writeJSONError(w, http.StatusInternalServerError, "Failed to start login")
			return
		}

		secure := getScheme(r) == "https"
		setTransientCookie(w, cookiePKCEVerifier, data.CodeVerifier, secure)
		setTransientCookie(w, cookiePKCEState, data.State, secure)
		if returnURL := r.URL.Query().Get("returnUrl"); returnURL != "" && strings.HasPrefix(returnURL, "/") {
			setTransientCookie(w, cookieReturnURL, returnURL, secure)
		}

		authURL := s.services.Google.AuthCodeURL(data.State, data.CodeChallenge, s.callbackURI(r))
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// GoogleCallbackHandler finishes the flow: it validates state against
// the PKCE cookies, exchanges the code, resolves the local user and
// establishes the session before bouncing back to the frontend.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secure := getScheme(r) == "https"
		verifierCookie, verifierErr := r.Cookie(cookiePKCEVerifier)
		stateCookie, stateErr := r.Cookie(cookiePKCEState)
		returnCookie, _ := r.Cookie(cookieReturnURL)

		// The PKCE material is single-use regardless of outcome.
		clearCookie(w, cookiePKCEVerifier, secure)
		clearCookie(w, cookiePKCEState, secure)
		clearCookie(w, cookieReturnURL, secure)

		if verifierErr != nil || stateErr != nil || verifierCookie.Value == "" || stateCookie.Value == "" {
			writeJSONError(w, http.StatusBadRequest, "Missing PKCE data")
			return
		}
		if r.URL.Query().Get("state") != stateCookie.Value {
			writeJSONError(w, http.StatusBadRequest, "Invalid state parameter")
			return
		}

		identity, err := s.services.Google.Exchange(r.Context(), r.URL.Query().Get("code"), verifierCookie.Value, s.callbackURI(r))
		if err != nil {
			log.Error().Err(err).Msg("[GoogleCallbackHandler] exchange failed")
			writeJSONError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}
		if identity == nil {
			writeJSONError(w, http.StatusUnauthorized, "Failed to authenticate with Google")
			return
		}

		user, err := s.services.Resolver.Resolve(r.Context(), identity)
		if err != nil {
			log.Error().Err(err).Msg("[GoogleCallbackHandler] user resolution failed")
			writeJSONError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}

		session, err := s.services.Sessions.Create(r.Context(), user.ID, clientIP(r), r.UserAgent())
		if err != nil {
			log.Error().Err(err).Msg("[GoogleCallbackHandler] session creation failed")
			writeJSONError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}
		s.setSessionCookie(w, r, session.ID)

		returnURL := defaultReturnURL
		if returnCookie != nil && strings.HasPrefix(returnCookie.Value, "/") {
			returnURL = returnCookie.Value
		}
		http.Redirect(w, r, s.config.GetFrontendBaseURL()+returnURL, http.StatusFound)
	}
}

// MeHandler reports the current session's identity. It reads the
// cookie itself rather than the request principal so a stale cookie
// can be cleared with a precise error.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.config.GetSessionCookieName())
		if err != nil || cookie.Value == "" {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		info, err := s.services.Sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			log.Error().Err(err).Msg("[MeHandler] session lookup failed")
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if info == nil {
			s.clearSessionCookie(w, r)
			writeJSONError(w, http.StatusUnauthorized, "Session expired or invalid")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"userId":     info.UserID,
			"email":      info.Email,
			"name":       info.Name,
			"pictureUrl": info.PictureURL,
			"isAdmin":    info.IsAdmin,
			"expiresAt":  info.ExpiresAt,
		})
	}
}

// LogoutHandler destroys the session server-side and clears the
// cookie. Succeeds even when no session exists.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && cookie.Value != "" {
			if _, err := s.services.Sessions.Delete(r.Context(), cookie.Value); err != nil {
				log.Error().Err(err).Msg("[LogoutHandler] session deletion failed")
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
		}
		s.clearSessionCookie(w, r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

type credentialLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialLoginHandler is the stateless username/password path. A
// generic 401 covers every rejection so callers cannot probe which
// accounts exist.
func (s *Server) CredentialLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := s.services.Tokens.Login(r.Context(), req.Username, req.Password)
		if errors.Is(err, errors.ErrBlankUsername) || errors.Is(err, errors.ErrBlankPassword) {
			writeJSONError(w, http.StatusBadRequest, "Username and password are required")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("[CredentialLoginHandler] login failed")
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if result == nil {
			writeJSONError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"token":     result.Token,
			"username":  result.Username,
			"expiresAt": result.ExpiresAt,
		})
	}
}

func (s *Server) callbackURI(r *http.Request) string {
	return getScheme(r) + "://" + r.Host + RouteGoogleCallback
}

// isLocalFrontend drives the cross-origin cookie attributes: a
// localhost frontend needs SameSite=None over plain http, anything
// else gets Secure + Lax.
func (s *Server) isLocalFrontend() bool {
	return strings.Contains(strings.ToLower(s.config.GetFrontendBaseURL()), "localhost")
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	local := s.isLocalFrontend()
	sameSite := http.SameSiteLaxMode
	if local {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.config.GetSessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   !local,
		SameSite: sameSite,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	local := s.isLocalFrontend()
	sameSite := http.SameSiteLaxMode
	if local {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !local,
		SameSite: sameSite,
	})
}

func setTransientCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(pkceCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("[writeJSON] encoding response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
