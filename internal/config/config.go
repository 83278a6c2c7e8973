package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevSessionSecret is the fallback signing key for local runs.
const DevSessionSecret = "dev_secret_change_me"

// Config is the process configuration, read from the environment.
type Config struct {
	Port          string        `env:"PORT"           envDefault:"5175"`
	LogLevel      string        `env:"LOG_LEVEL"      envDefault:"info"`
	DBPath        string        `env:"DB_PATH"        envDefault:"./data/cascade.db"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev_secret_change_me"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"12h"`
	RevealDelay   time.Duration `env:"REVEAL_DELAY"   envDefault:"1s"`
	ClientOrigin  string        `env:"CLIENT_ORIGIN"  envDefault:"http://localhost:5173"`
	PaletteFile   string        `env:"PALETTE_FILE"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`
}

// Load parses the environment into a Config and validates it.
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

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Port == "":
		return errors.New("config: PORT is empty")
	case c.SessionSecret == "":
		return errors.New("config: SESSION_SECRET is empty")
	case c.SessionTTL <= 0:
		return errors.New("config: SESSION_TTL must be positive")
	case c.RevealDelay < 0:
		return errors.New("config: REVEAL_DELAY must not be negative")
	case c.SweepInterval <= 0:
		return errors.New("config: SWEEP_INTERVAL must be positive")
	}
	return nil
}

// UsingDevSecret reports whether tokens are signed with the built-in key.
func (c Config) UsingDevSecret() bool { return c.SessionSecret == DevSessionSecret }
