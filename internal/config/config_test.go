package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SESSION_POLICY", "")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "X-Auth-Token", cfg.Auth.TokenHeader)
	assert.Equal(t, SessionPolicyMulti, cfg.Auth.SessionPolicy)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 500*time.Millisecond, cfg.Auth.CacheTimeout())
	assert.False(t, cfg.Auth.HasBootstrapAdmin())
}

func TestLoadSessionPolicy(t *testing.T) {
	t.Setenv("AUTH_SESSION_POLICY", "SINGLE")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SessionPolicySingle, cfg.Auth.SessionPolicy)

	t.Setenv("AUTH_SESSION_POLICY", "sometimes")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "5")
	t.Setenv("AUTH_CACHE_TIMEOUT_MILLIS", "50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("AUTH_BOOTSTRAP_ADMIN_USERNAME", "root")
	t.Setenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD", "changeme")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL())
	assert.Equal(t, 50*time.Millisecond, cfg.Auth.CacheTimeout())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Auth.HasBootstrapAdmin())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	require.Error(t, err)
}
