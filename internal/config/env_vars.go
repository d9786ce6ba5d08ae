package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/cataloghq/catalog-api/internal/errors"
)

// EnvVars holds environment-based configuration. Secrets for the Google
// client and the JWT signer have no defaults: leaving them unset is a
// startup failure, not a silent fallback.
type EnvVars struct {
	Port            string `env:"PORT" envDefault:"8080"`
	AppName         string `env:"APP_NAME" envDefault:"Catalog API"`
	Env             string `env:"ENV" envDefault:"DEV"`
	DatabasePath    string `env:"DATABASE_PATH" envDefault:"data/catalog.db"`
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`

	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	GoogleIssuer       string   `env:"GOOGLE_ISSUER" envDefault:"https://accounts.google.com"`
	AdminEmailList     []string `env:"ADMIN_EMAILS" envSeparator:","`

	SessionTTLHours   int    `env:"SESSION_EXPIRATION_HOURS" envDefault:"8"`
	SessionCookieName string `env:"SESSION_COOKIE_NAME" envDefault:"catalog_session"`

	JWTSecret      string `env:"JWT_SECRET"`
	JWTIssuer      string `env:"JWT_ISSUER" envDefault:"catalog-api"`
	JWTAudience    string `env:"JWT_AUDIENCE" envDefault:"catalog-api"`
	JWTExpiryHours int    `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`

	adminEmails AdminEmails
}

var _ Config = (*EnvVars)(nil)

// New loads configuration from a .env file (if present) and the process
// environment, then validates the required values.
func New() (Config, error) {
	_ = godotenv.Load()

	var ev EnvVars
	if err := env.Parse(&ev); err != nil {
		return nil, errors.Wrapf(err, "[config.New] env.Parse")
	}

	if ev.GoogleClientID == "" {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[config.New] GOOGLE_CLIENT_ID")
	}
	if ev.GoogleClientSecret == "" {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[config.New] GOOGLE_CLIENT_SECRET")
	}
	if ev.JWTSecret == "" {
		return nil, errors.Wrapf(errors.ErrMissingConfig, "[config.New] JWT_SECRET")
	}

	ev.adminEmails = NewAdminEmails(ev.AdminEmailList)
	return &ev, nil
}

func (ev *EnvVars) GetPort() string {
	port := ev.Port
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (ev *EnvVars) GetAppName() string { return ev.AppName }

func (ev *EnvVars) GetEnv() string { return ev.Env }

func (ev *EnvVars) GetDatabasePath() string { return ev.DatabasePath }

func (ev *EnvVars) GetFrontendBaseURL() string { return ev.FrontendBaseURL }

func (ev *EnvVars) GetGoogleClientID() string { return ev.GoogleClientID }

func (ev *EnvVars) GetGoogleClientSecret() string { return ev.GoogleClientSecret }

func (ev *EnvVars) GetGoogleIssuer() string { return ev.GoogleIssuer }

func (ev *EnvVars) GetAdminEmails() AdminEmails { return ev.adminEmails }

func (ev *EnvVars) GetSessionTTL() time.Duration {
	return time.Duration(ev.SessionTTLHours) * time.Hour
}

func (ev *EnvVars) GetSessionCookieName() string { return ev.SessionCookieName }

func (ev *EnvVars) GetJWTSecret() string { return ev.JWTSecret }

func (ev *EnvVars) GetJWTIssuer() string { return ev.JWTIssuer }

func (ev *EnvVars) GetJWTAudience() string { return ev.JWTAudience }

func (ev *EnvVars) GetJWTExpiry() time.Duration {
	return time.Duration(ev.JWTExpiryHours) * time.Hour
}
