package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAuthEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_SIGNING_KEY", "access-secret")
	t.Setenv("REFRESH_SIGNING_KEY", "refresh-secret")
}

func TestLoadDefaults(t *testing.T) {
	setAuthEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AlgorithmHS256, cfg.Auth.SigningAlgorithm)
	assert.Equal(t, 30, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 7, cfg.Auth.RefreshTokenTTLDays)
	assert.Equal(t, DefaultHashCost, cfg.Auth.HashCostFactor)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL())
	assert.Equal(t, "auth.events", cfg.Events.Channel)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	setAuthEnv(t)
	t.Setenv("SIGNING_ALGORITHM", "hs512")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "1")
	t.Setenv("HASH_COST_FACTOR", "10")
	t.Setenv("FIRST_SUPERUSER_EMAIL", "root@x.com")
	t.Setenv("FIRST_SUPERUSER_PASSWORD", "root-password")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AlgorithmHS512, cfg.Auth.SigningAlgorithm)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTTL())
	assert.Equal(t, 10, cfg.Auth.HashCostFactor)
	assert.Equal(t, "root@x.com", cfg.Bootstrap.SuperuserEmail)
	assert.Equal(t, "root-password", cfg.Bootstrap.SuperuserPassword)
}

func TestLoadRejectsInvalidAuth(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing access key", env: map[string]string{"ACCESS_SIGNING_KEY": ""}},
		{name: "missing refresh key", env: map[string]string{"REFRESH_SIGNING_KEY": ""}},
		{name: "shared key", env: map[string]string{"REFRESH_SIGNING_KEY": "access-secret"}},
		{name: "none algorithm", env: map[string]string{"SIGNING_ALGORITHM": "none"}},
		{name: "asymmetric algorithm", env: map[string]string{"SIGNING_ALGORITHM": "RS256"}},
		{name: "cost too low", env: map[string]string{"HASH_COST_FACTOR": "9"}},
		{name: "cost too high", env: map[string]string{"HASH_COST_FACTOR": "16"}},
		{name: "cost not a number", env: map[string]string{"HASH_COST_FACTOR": "twelve"}},
		{name: "zero access ttl", env: map[string]string{"ACCESS_TOKEN_TTL_MINUTES": "0"}},
		{name: "negative refresh ttl", env: map[string]string{"REFRESH_TOKEN_TTL_DAYS": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setAuthEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 3*time.Second, AppConfig{RequestTimeoutSeconds: 3}.RequestTimeout())
}
