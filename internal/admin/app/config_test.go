package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, "127.0.0.1:8090", cfg.Addr())
	require.Equal(t, 6333, cfg.QdrantPort)
	require.Equal(t, 6334, cfg.QdrantGRPCPort)
	require.Equal(t, 10*time.Second, cfg.QdrantTimeout)
	require.Equal(t, time.Hour, cfg.TokenTTL())
	require.Equal(t, 60, cfg.RateLimitPerMinute)
	require.Equal(t, int64(1<<20), cfg.MaxBodySizeBytes)
	require.Equal(t, int64(DefaultMaxUploadSize), cfg.MaxUploadSizeBytes)
	require.Equal(t, "json", cfg.LogFormat())
	require.Equal(t, "qdrant", cfg.OpsApplyService)
	require.Zero(t, cfg.RestoreUploadTimeout)
	require.Equal(t, 30*24*time.Hour, cfg.OpsArchiveRetention)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_PORT", "9000")
	t.Setenv("QDRANT_TIMEOUT", "250ms")
	t.Setenv("TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("REQUIRE_API_KEY", "true")
	t.Setenv("API_KEY", "k3y")
	t.Setenv("LOG_JSON", "false")
	t.Setenv("OPS_TTL", "120")
	t.Setenv("OPS_ARCHIVE_RETENTION", "0")
	t.Setenv("ENABLE_OPS_APPLY", "1")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, 9000, cfg.APIPort)
	require.Equal(t, 250*time.Millisecond, cfg.QdrantTimeout)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL())
	require.True(t, cfg.RequireAPIKey)
	require.Equal(t, "text", cfg.LogFormat())
	require.Equal(t, 2*time.Minute, cfg.OpsTTL)
	require.Zero(t, cfg.OpsArchiveRetention)
	require.True(t, cfg.EnableOpsApply)
	require.Equal(t, 60, cfg.RateLimitPerMinute, "unparsable values fall back to the default")
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		want   string
	}{
		"env":             {func(c *Config) { c.Env = "prod" }, "ENV must be"},
		"privileged port": {func(c *Config) { c.APIPort = 80 }, "API_PORT"},
		"token ttl":       {func(c *Config) { c.TokenExpireMinutes = 2 }, "TOKEN_EXPIRE_MINUTES"},
		"rate limit":      {func(c *Config) { c.RateLimitPerMinute = 0 }, "RATE_LIMIT_PER_MINUTE"},
		"body size":       {func(c *Config) { c.MaxBodySizeBytes = 100 }, "MAX_BODY_SIZE_BYTES"},
		"upload size":     {func(c *Config) { c.MaxUploadSizeBytes = 1024 }, "MAX_UPLOAD_SIZE_BYTES"},
		"qdrant timeout":  {func(c *Config) { c.QdrantTimeout = time.Millisecond }, "QDRANT_TIMEOUT"},
		"username":        {func(c *Config) { c.AdminUsername = "ab" }, "ADMIN_USERNAME"},
		"api key":         {func(c *Config) { c.RequireAPIKey = true }, "API_KEY is required"},
		"retention":       {func(c *Config) { c.OpsArchiveRetention = -time.Hour }, "OPS_ARCHIVE_RETENTION"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := LoadConfig()
	cfg.Env = "nope"
	cfg.APIPort = 1
	require.ErrorContains(t, cfg.Validate(), "API_PORT", "all problems are reported together")
}
