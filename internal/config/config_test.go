package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cookbook")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadRequiredVariables(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/cookbook")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cookbook")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://cookbook.example.com, https://admin.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cookbook.example.com",
		"https://admin.example.com",
	}, cfg.CORSOrigins)
}

func TestLoadTokenTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cookbook")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)

	t.Setenv("TOKEN_TTL", "not-a-duration")
	_, err = Load()
	assert.Error(t, err)
}
