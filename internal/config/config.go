// Package config holds the environment-sourced configuration for the edge
// authentication service. All settings are read once at startup into an
// explicit struct that is injected into each component, so no package reads
// the environment at request time.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full configuration surface of the service.
type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Identity provider settings. Issuer is the provider's issuer URL and is
	// always required; AuthDomain optionally overrides the token endpoint
	// with a hosted domain (https://{domain}/oauth2/token) when the issuer's
	// discovery document should not be consulted for the token exchange.
	Issuer     string `env:"AUTH_ISSUER"`
	AuthDomain string `env:"AUTH_DOMAIN"`
	ClientID   string `env:"AUTH_CLIENT_ID"`
	// RedirectURL must match the redirect URI used to obtain the
	// authorization code.
	RedirectURL string `env:"AUTH_REDIRECT_URL"`
	// JWKSURL overrides the discovered jwks_uri when set.
	JWKSURL string `env:"AUTH_JWKS_URL"`

	PostLoginRedirectURL  string `env:"POST_LOGIN_REDIRECT_URL" envDefault:"/"`
	PostLogoutRedirectURL string `env:"POST_LOGOUT_REDIRECT_URL" envDefault:"/"`

	AccessTokenCookiePath  string `env:"ACCESS_TOKEN_COOKIE_PATH" envDefault:"/"`
	RefreshTokenCookiePath string `env:"REFRESH_TOKEN_COOKIE_PATH" envDefault:"/"`

	// SessionDuration overrides the provider's expires_in when non-zero,
	// in seconds.
	SessionDuration int `env:"SESSION_DURATION"`

	// CDN signed-cookie settings. Signing is enabled only when both the
	// secret identifier and the key-pair id are set.
	CDNSigningKeySecretID string   `env:"CDN_SIGNING_KEY_SECRET_ID"`
	CDNKeyPairID          string   `env:"CDN_KEY_PAIR_ID"`
	CDNDomain             string   `env:"CDN_DOMAIN"`
	CDNPaths              []string `env:"CDN_PATHS" envSeparator:","`

	// AllowedClaims is the issuance-time suppression allow-list;
	// ContextClaims is the authorizer's context export list. They are
	// configured independently.
	AllowedClaims []string `env:"ALLOWED_CLAIMS" envSeparator:","`
	ContextClaims []string `env:"CONTEXT_CLAIMS" envSeparator:","`

	// OriginSecret, when set, must be presented by inbound authorize
	// requests in the X-Origin-Verify header.
	OriginSecret string `env:"ORIGIN_SECRET"`

	AWSRegion string `env:"AWS_REGION" envDefault:"us-east-1"`
}

// Load reads configuration from the environment, loading a local .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings without which no handler can operate.
func (c *Config) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("config.Validate: AUTH_ISSUER is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("config.Validate: AUTH_CLIENT_ID is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("config.Validate: AUTH_REDIRECT_URL is required")
	}
	if c.CDNSigningEnabled() && c.CDNDomain == "" {
		return fmt.Errorf("config.Validate: CDN_DOMAIN is required when CDN signing is configured")
	}
	return nil
}

// CDNSigningEnabled reports whether resource-scoped cookie signing is
// configured.
func (c *Config) CDNSigningEnabled() bool {
	return c.CDNSigningKeySecretID != "" && c.CDNKeyPairID != ""
}

// IsDevelopment reports whether the service runs in a development
// environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "DEV"
}
