package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL   string
	JWTSecret     string
	TokenTTL      time.Duration
	LogLevel      string
	Port          string
	MediaDir      string
	MigrationsDir string
	RateLimitRPS  float64
	CORSOrigins   []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		Port:          getEnvOrDefault("PORT", "8080"),
		MediaDir:      getEnvOrDefault("MEDIA_DIR", "media"),
		MigrationsDir: getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		TokenTTL:      24 * time.Hour,
		RateLimitRPS:  20,
		CORSOrigins:   splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	// Required environment variables
	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret = os.Getenv("JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTL must be a duration: %w", err)
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma-separated env value, dropping empty entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
