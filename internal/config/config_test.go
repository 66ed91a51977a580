package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientDefaults(t *testing.T) {
	cfg := LoadClient()

	assert.Equal(t, "http://localhost:8085", cfg.BackendURL)
	assert.Equal(t, "local", cfg.ProjectRef)
	assert.Equal(t, "http://localhost:3000", cfg.SiteOrigin)
	assert.Equal(t, "", cfg.BasePath)
	assert.Equal(t, "basekit-client.db", cfg.DBPath)
}

func TestLoadClientFromEnv(t *testing.T) {
	t.Setenv("BASEKIT_URL", "https://api.example.com")
	t.Setenv("BASEKIT_ANON_KEY", "anon123")
	t.Setenv("BASEKIT_BASE_PATH", "/pr-42")

	cfg := LoadClient()
	assert.Equal(t, "https://api.example.com", cfg.BackendURL)
	assert.Equal(t, "anon123", cfg.AnonKey)
	assert.Equal(t, "/pr-42", cfg.BasePath)
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, ":8085", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 30, cfg.AuthRatePerMin)
}

func TestLoadServerInvalidDuration(t *testing.T) {
	t.Setenv("BASEKIT_ACCESS_TOKEN_TTL", "soon")

	_, err := LoadServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BASEKIT_ACCESS_TOKEN_TTL")
}

func TestLoadServerInvalidRate(t *testing.T) {
	t.Setenv("BASEKIT_AUTH_RATE_PER_MIN", "lots")

	_, err := LoadServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BASEKIT_AUTH_RATE_PER_MIN")
}
