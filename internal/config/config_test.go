package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "GENERATION_TIMEOUT_SECONDS", "DUPLICATE_THRESHOLD", "S3_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 0.85, cfg.DuplicateThreshold)
	assert.False(t, cfg.S3Enabled)
	assert.Equal(t, 24*time.Hour, cfg.S3LinkExpiry)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "3")
	t.Setenv("DUPLICATE_THRESHOLD", "0.9")
	t.Setenv("S3_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 3*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 0.9, cfg.DuplicateThreshold)
	assert.True(t, cfg.S3Enabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "soon")
	t.Setenv("DUPLICATE_THRESHOLD", "high")
	t.Setenv("S3_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 0.85, cfg.DuplicateThreshold)
	assert.False(t, cfg.S3UseSSL)
}
