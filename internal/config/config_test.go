package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestLoad_RejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "/api")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080/api/")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("TOKEN_DSN", "")
	t.Setenv("UPLOAD_PRESET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "file:coachctl.db", cfg.TokenDSN)
	assert.Equal(t, "coach_profiles", cfg.UploadPreset)
}

func TestLoad_TimeoutSeconds(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080/api")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080/api")
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadStub(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadStub()
	require.Error(t, err, "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("STUB_PUBLIC_URL", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("TOKEN_TTL_SECONDS", "")
	cfg, err := LoadStub()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:9090", cfg.PublicURL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}
