package config

import (
	"fmt"
)

// JWTConfig holds configuration for session token signing and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the session token configuration from the auth section.
// A missing secret is an error: sessions cannot be issued without one.
func (c *Config) JWT() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          c.Auth.JWTSecret,
		ExpirationHours: c.Auth.ExpirationHours,
	}
	if cfg.ExpirationHours == 0 {
		cfg.ExpirationHours = 24
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
