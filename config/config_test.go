package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_DUR", "2m")
	t.Setenv("TEST_DUR_BAD", "two minutes")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")

	assert.Equal(t, "value", getEnv("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("TEST_MISSING", "fallback"))

	assert.Equal(t, 2*time.Minute, getDurationEnv("TEST_DUR", time.Hour))
	assert.Equal(t, time.Hour, getDurationEnv("TEST_DUR_BAD", time.Hour))
	assert.Equal(t, time.Hour, getDurationEnv("TEST_DUR_MISSING", time.Hour))

	assert.Equal(t, 42, getIntEnv("TEST_INT", 7))
	assert.Equal(t, 7, getIntEnv("TEST_INT_BAD", 7))
	assert.Equal(t, int64(42), getInt64Env("TEST_INT", 7))
	assert.Equal(t, int32(42), getInt32Env("TEST_INT", 7))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/caribay_test")
	t.Setenv("CONFIG_FILE", "nonexistent.env")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.AdminCacheTTL)
	assert.Equal(t, time.Hour, cfg.ProofURLExpiry)
	assert.Equal(t, 5, cfg.LowStockThreshold)
}
