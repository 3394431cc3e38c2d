package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "VIEWPORT_WIDTH", "IMPORT_SCALE", "EXPORT_DIR", "CORS_ORIGINS", "SESSION_TTL_HOURS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1280, cfg.ViewportWidth)
	assert.Equal(t, 10.0, cfg.ImportScale)
	assert.Equal(t, "data/exports", cfg.ExportDir)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 24, cfg.SessionTTLHours)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("VIEWPORT_HEIGHT", "600")
	t.Setenv("IMPORT_SCALE", "2.5")
	t.Setenv("READ_TIMEOUT", "oops")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 600, cfg.ViewportHeight)
	assert.Equal(t, 2.5, cfg.ImportScale)
	assert.Equal(t, 10, cfg.ReadTimeout, "invalid int falls back to default")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestWithDefaultPort(t *testing.T) {
	t.Setenv("PORT", "")
	assert.Equal(t, "3002", Load().WithDefaultPort("3002").Port)

	t.Setenv("PORT", "9000")
	assert.Equal(t, "9000", Load().WithDefaultPort("3002").Port)
}
