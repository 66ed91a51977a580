// Package config loads immutable configuration from the environment once
// at startup. A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"basekit/internal/branding"
)

// Client holds everything the CLI client needs.
type Client struct {
	// BackendURL is the base URL of the BaaS (or the local dev server).
	BackendURL string
	// AnonKey is sent as the apikey header on every request.
	AnonKey string
	// ProjectRef names the project; it scopes the persisted session key.
	ProjectRef string
	// SiteOrigin and BasePath form the OAuth redirect target. BasePath
	// covers deployments mounted under a prefix (e.g. /pr-42).
	SiteOrigin string
	BasePath   string
	// DBPath is the local bbolt database file.
	DBPath string
}

// Server holds the dev server configuration.
type Server struct {
	Addr            string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SQLitePath      string
	// AuthRatePerMin limits requests per client IP on the auth endpoints.
	AuthRatePerMin int
}

// LoadEnvFile loads .env if present. Missing files are not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadClient reads the client configuration from the environment.
func LoadClient() *Client {
	return &Client{
		BackendURL: getEnv(branding.EnvPrefix+"URL", "http://localhost:8085"),
		AnonKey:    os.Getenv(branding.EnvPrefix + "ANON_KEY"),
		ProjectRef: getEnv(branding.EnvPrefix+"PROJECT_REF", "local"),
		SiteOrigin: getEnv(branding.EnvPrefix+"SITE_ORIGIN", "http://localhost:3000"),
		BasePath:   os.Getenv(branding.EnvPrefix + "BASE_PATH"),
		DBPath:     getEnv(branding.EnvPrefix+"DB", branding.Slug+"-client.db"),
	}
}

// LoadServer reads the dev server configuration from the environment.
func LoadServer() (*Server, error) {
	cfg := &Server{
		Addr:       getEnv(branding.EnvPrefix+"DEVSERVER_ADDR", ":8085"),
		JWTSecret:  getEnv(branding.EnvPrefix+"JWT_SECRET", "basekit-dev-secret"),
		SQLitePath: getEnv(branding.EnvPrefix+"SQLITE_PATH", branding.Slug+"-dev.db"),
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration(branding.EnvPrefix+"ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration(branding.EnvPrefix+"REFRESH_TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AuthRatePerMin, err = getInt(branding.EnvPrefix+"AUTH_RATE_PER_MIN", 30); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
