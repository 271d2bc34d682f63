package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/customizer/internal/errors"
)

func TestValidate_NilConfig(t *testing.T) {
	require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, errors.ErrConfigInvalidAddr},
		{"zero body timeout", func(c *Config) { c.Server.BodyTimeout = 0 }, errors.ErrConfigInvalidTimeout},
		{"negative finalize timeout", func(c *Config) { c.Server.FinalizeTimeout = -time.Second }, errors.ErrConfigInvalidTimeout},
		{"zero body size", func(c *Config) { c.Server.MaxBodyBytes = 0 }, errors.ErrConfigInvalidTimeout},
		{"unknown column policy", func(c *Config) { c.Storage.ColumnPolicy = "truncate" }, errors.ErrConfigInvalidColumnPolicy},
		{"zero lock timeout", func(c *Config) { c.Storage.LockTimeout = 0 }, errors.ErrConfigInvalidTimeout},
		{"zero ai timeout", func(c *Config) { c.AI.Timeout = 0 }, errors.ErrConfigInvalidAI},
		{"too many retries", func(c *Config) { c.AI.MaxRetries = 11 }, errors.ErrConfigInvalidAI},
		{"no retries", func(c *Config) { c.AI.MaxRetries = 0 }, errors.ErrConfigInvalidAI},
		{"zero max tokens", func(c *Config) { c.AI.MaxTokens = 0 }, errors.ErrConfigInvalidAI},
		{"negative rate", func(c *Config) { c.AI.RequestsPerSecond = -1 }, errors.ErrConfigInvalidAI},
		{"no key env var", func(c *Config) { c.AI.APIKeyEnvVar = "" }, errors.ErrConfigInvalidAI},
		{"zero retention", func(c *Config) { c.Backup.Retention = 0 }, errors.ErrConfigInvalidTimeout},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, errors.ErrConfigInvalidCacheBackend},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisAddr = ""
		}, errors.ErrConfigInvalidCacheBackend},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, errors.ErrConfigInvalidTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.ErrorIs(t, Validate(cfg), tc.want)
		})
	}
}

func TestValidate_BoundaryValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.MaxRetries = 1
	cfg.AI.RequestsPerSecond = 0
	cfg.Storage.ColumnPolicy = "REJECT"
	cfg.Cache.Backend = "none"
	cfg.Cache.TTL = 0
	cfg.Backup.Enabled = false
	cfg.Backup.Retention = 0
	require.NoError(t, Validate(cfg))

	cfg.AI.MaxRetries = 10
	require.NoError(t, Validate(cfg))
}
