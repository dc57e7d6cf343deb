package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "SHUTDOWN_TIMEOUT", "DATASET", "DATABASE_URL", "AUTH_TOKEN", "OTEL_ENABLED", "OTEL_ENDPOINT", "OTEL_INSECURE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(Prefix+"_"+k, "")
		require.NoError(t, os.Unsetenv(Prefix+"_"+k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Dataset)
	assert.False(t, cfg.OTelEnabled)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("POLYX_PORT", "9090")
	t.Setenv("POLYX_SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("POLYX_DATASET", "/data/experiments.json.zst")
	t.Setenv("POLYX_OTEL_ENABLED", "true")
	t.Setenv("POLYX_OTEL_ENDPOINT", "localhost:4317")
	t.Setenv("POLYX_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/experiments.json.zst", cfg.Dataset)
	assert.True(t, cfg.OTelEnabled)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, ShutdownTimeout: time.Second, LogFormat: "text"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"otel without endpoint", func(c *Config) { c.OTelEnabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("POLYX_PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}
