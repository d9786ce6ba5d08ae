package config

import "time"

// Config aggregates the configuration surfaces used across the service.
type Config interface {
	EnvConfig
	GoogleConfig
	SessionConfig
	JWTConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDatabasePath() string
	GetFrontendBaseURL() string
}

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleIssuer() string
	GetAdminEmails() AdminEmails
}

type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
}

type JWTConfig interface {
	GetJWTSecret() string
	GetJWTIssuer() string
	GetJWTAudience() string
	GetJWTExpiry() time.Duration
}
