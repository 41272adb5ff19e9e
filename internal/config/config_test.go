package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "fritter", cfg.MongoDB.Database)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, 3*time.Second, cfg.Alerts.TTL)
	require.False(t, cfg.RateLimit.Enabled)
	require.Equal(t, 10.0, cfg.RateLimit.RPS)
	require.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "4321")
	t.Setenv("MONGODB_DATABASE", "fritter_test")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("ALERT_TTL_SECONDS", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "4321", cfg.Server.Port)
	require.Equal(t, "fritter_test", cfg.MongoDB.Database)
	require.Equal(t, "env-secret", cfg.JWT.Secret)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 7*time.Second, cfg.Alerts.TTL)
}
