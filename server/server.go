// Package server wires the authentication subsystem into an HTTP
// surface: the Google login flow, the session endpoints, the
// credential login, and the request authenticator that resolves every
// incoming request to a security principal.
package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cataloghq/catalog-api/googleauth"
	"github.com/cataloghq/catalog-api/internal/config"
	"github.com/cataloghq/catalog-api/internal/errors"
	"github.com/cataloghq/catalog-api/sessions"
	"github.com/cataloghq/catalog-api/token"
	"github.com/cataloghq/catalog-api/users"
)

// CodeExchanger abstracts the provider-facing half of the
// authorization-code flow so handlers can be exercised without a live
// identity provider.
type CodeExchanger interface {
	AuthCodeURL(state, codeChallenge, redirectURI string) string
	Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (*googleauth.Identity, error)
}

var _ CodeExchanger = (*googleauth.Client)(nil)

// Services holds the collaborator dependencies for the Server.
type Services struct {
	Google   CodeExchanger
	Resolver *users.Resolver
	Sessions *sessions.Store
	Tokens   *token.Issuer
	Verifier *token.Verifier
}

type Server struct {
	env         string // Environment (e.g. "DEV", "PROD")
	mux         *http.ServeMux
	handler     http.HandlerFunc
	routes      []string
	config      config.Config
	services    Services
	healthCheck func(context.Context) error
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithHealthCheck sets a dependency probe for the health endpoint,
// typically the database ping.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(s *Server) {
		s.healthCheck = check
	}
}

func New(cfg config.Config, services Services, options ...Option) (*Server, error) {
	if services.Google == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[server.New] Google exchanger is required")
	}
	if services.Resolver == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[server.New] user resolver is required")
	}
	if services.Sessions == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[server.New] session store is required")
	}
	if services.Tokens == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[server.New] token issuer is required")
	}
	if services.Verifier == nil {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[server.New] token verifier is required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		services: services,
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP,
		s.RecoverMiddleware,
		s.LoggingMiddleware,
		s.CorsMiddleware,
		s.AuthenticationMiddleware,
	)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
