package session

import (
	"os"
	"strconv"
	"time"
)

// Config defines runtime configuration for the session subsystem.
type Config struct {
	// TTL is the absolute session lifetime, measured from Establish.
	// It is mandatory; a session past this point is dead regardless of use.
	TTL time.Duration

	// IdleTimeout invalidates sessions not resolved within the window.
	// Zero disables the idle check.
	IdleTimeout time.Duration

	// TokenBytes is the entropy of minted session tokens.
	TokenBytes int

	// SweepInterval controls how often the janitor deletes dead rows.
	SweepInterval time.Duration
}

// DefaultConfig returns secure defaults suitable for development.
func DefaultConfig() Config {
	return Config{
		TTL:           24 * time.Hour,
		IdleTimeout:   2 * time.Hour,
		TokenBytes:    32,
		SweepInterval: 15 * time.Minute,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Optional (durations must be valid Go duration strings):
//   - PORTER_SESSION_TTL
//   - PORTER_SESSION_IDLE_TIMEOUT ("0" disables the idle check)
//   - PORTER_SESSION_TOKEN_BYTES (32..64)
//   - PORTER_SESSION_SWEEP_INTERVAL
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("PORTER_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = d
	}

	if v := os.Getenv("PORTER_SESSION_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.IdleTimeout = d
	}

	if v := os.Getenv("PORTER_SESSION_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 32 || n > 64 {
			return Config{}, ErrConfig
		}
		cfg.TokenBytes = n
	}

	if v := os.Getenv("PORTER_SESSION_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.SweepInterval = d
	}

	// Idle window longer than the absolute lifetime would never trigger.
	if cfg.IdleTimeout > cfg.TTL {
		return Config{}, ErrConfig
	}

	return cfg, nil
}
