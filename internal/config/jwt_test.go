package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	tests := []struct {
		name      string
		auth      AuthConfig
		wantHours int
		wantErr   string
	}{
		{"default expiration", AuthConfig{JWTSecret: "s"}, 24, ""},
		{"custom expiration", AuthConfig{JWTSecret: "s", ExpirationHours: 72}, 72, ""},
		{"missing secret", AuthConfig{ExpirationHours: 1}, 0, "JWT_SECRET is required"},
		{"negative expiration", AuthConfig{JWTSecret: "s", ExpirationHours: -3}, 0, "at least 1 hour, got: -3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Auth: tt.auth}
			jwtCfg, err := cfg.JWT()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.auth.JWTSecret, jwtCfg.Secret)
			assert.Equal(t, tt.wantHours, jwtCfg.ExpirationHours)
		})
	}
}

func TestJWT_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "12")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", jwtCfg.Secret)
	assert.Equal(t, 12, jwtCfg.ExpirationHours)
}
