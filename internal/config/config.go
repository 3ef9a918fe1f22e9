// Package config loads shopdesk settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Token storage backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds runtime settings.
type Config struct {
	APIURL  string        `env:"SHOPDESK_API_URL" envDefault:"http://localhost:8000/api"`
	WebURL  string        `env:"SHOPDESK_WEB_URL" envDefault:"http://localhost:5173"`
	Timeout time.Duration `env:"SHOPDESK_TIMEOUT" envDefault:"10s"`

	// Token, when set, is used instead of the stored token and is never persisted.
	Token      string `env:"SHOPDESK_TOKEN"`
	TokenStore string `env:"SHOPDESK_TOKEN_STORE" envDefault:"file"`
	TokenKey   string `env:"SHOPDESK_TOKEN_KEY" envDefault:"token"`
	// StateDir defaults to ~/.shopdesk when empty.
	StateDir    string `env:"SHOPDESK_STATE_DIR"`
	RedisAddr   string `env:"SHOPDESK_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix string `env:"SHOPDESK_REDIS_PREFIX" envDefault:"shopdesk:"`

	// Both off by default: requests carry no bearer token and a 401 does not
	// end the session on its own.
	AttachBearer bool `env:"SHOPDESK_ATTACH_BEARER" envDefault:"false"`
	LogoutOn401  bool `env:"SHOPDESK_LOGOUT_ON_401" envDefault:"false"`

	LogFile string `env:"SHOPDESK_LOG_FILE"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return fmt.Errorf("config: SHOPDESK_API_URL is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: SHOPDESK_TIMEOUT must be positive, got %s", c.Timeout)
	}
	switch c.TokenStore {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("config: unknown SHOPDESK_TOKEN_STORE %q (want file, redis or memory)", c.TokenStore)
	}
	if c.TokenKey == "" {
		return fmt.Errorf("config: SHOPDESK_TOKEN_KEY is empty")
	}
	return nil
}
