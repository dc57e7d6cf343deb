package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. POLYX_PORT.
const Prefix = "POLYX"

// Config holds process configuration read from POLYX_* environment variables.
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	// Dataset is a JSON dataset file, optionally .gz/.zst/.lz4 compressed.
	// Empty means the bundled sample, unless DatabaseURL is set.
	Dataset string `envconfig:"DATASET"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	AuthToken   string `envconfig:"AUTH_TOKEN"`

	OTelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint string `envconfig:"OTEL_ENDPOINT"`
	OTelInsecure bool   `envconfig:"OTEL_INSECURE" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges envconfig cannot express.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid %s_PORT %d", Prefix, c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid %s_SHUTDOWN_TIMEOUT %s", Prefix, c.ShutdownTimeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid %s_LOG_FORMAT %q (want text or json)", Prefix, c.LogFormat)
	}
	if c.OTelEnabled && c.OTelEndpoint == "" {
		return fmt.Errorf("%s_OTEL_ENDPOINT is required when %s_OTEL_ENABLED is set", Prefix, Prefix)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
