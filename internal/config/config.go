package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all configuration for the screener
type Config struct {
	// HTTP configuration
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Catalog configuration
	SchemesFile string `env:"SCHEMES_FILE" envDefault:"schemes.json"`

	// Language configuration
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	// Session configuration
	SessionBackend   string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionCookie    string        `env:"SESSION_COOKIE" envDefault:"screener_session"`
	SessionKeyPrefix string        `env:"SESSION_KEY_PREFIX" envDefault:"screener:session:"`
	CookieSecure     bool          `env:"COOKIE_SECURE" envDefault:"false"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Event configuration
	EventsEnabled  bool   `env:"EVENTS_ENABLED" envDefault:"false"`
	EventStream    string `env:"EVENT_STREAM" envDefault:"screener.events"`
	EventStreamMax int64  `env:"EVENT_STREAM_MAXLEN" envDefault:"10000"`

	// CEL configuration
	CELEnabled bool `env:"CEL_ENABLED" envDefault:"true"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	if c.SchemesFile == "" {
		return fmt.Errorf("SCHEMES_FILE is required")
	}

	if c.DefaultLanguage == "" {
		return fmt.Errorf("DEFAULT_LANGUAGE is required")
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis session backend")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of: memory, redis")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}

	if c.EventsEnabled {
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when EVENTS_ENABLED is set")
		}
		if c.EventStream == "" {
			return fmt.Errorf("EVENT_STREAM is required when EVENTS_ENABLED is set")
		}
	}

	if c.EventStreamMax < 0 {
		return fmt.Errorf("EVENT_STREAM_MAXLEN must be non-negative")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// NeedsRedis reports whether any component is configured to use Redis
func (c *Config) NeedsRedis() bool {
	return c.SessionBackend == SessionBackendRedis || c.EventsEnabled
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{HTTPPort=%d, SchemesFile=%s, DefaultLanguage=%s, SessionBackend=%s, SessionTTL=%s, "+
			"RedisAddr=%s, RedisDB=%d, EventsEnabled=%v, EventStream=%s, CELEnabled=%v, LogLevel=%s}",
		c.HTTPPort,
		c.SchemesFile,
		c.DefaultLanguage,
		c.SessionBackend,
		c.SessionTTL,
		c.RedisAddr,
		c.RedisDB,
		c.EventsEnabled,
		c.EventStream,
		c.CELEnabled,
		c.LogLevel,
	)
}
