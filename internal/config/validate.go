package config

import (
	"strings"

	"github.com/mrz1836/customizer/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - server.addr must not be empty and every server timeout must be positive
//   - storage.column_policy must be "pad" or "reject"
//   - ai.timeout must be positive, ai.max_retries 1-10, ai.max_tokens positive
//   - cache.backend must be "memory", "redis" or "none"; redis needs an address
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateServerConfig(&cfg.Server); err != nil {
		return err
	}
	if err := validateStorageConfig(&cfg.Storage); err != nil {
		return err
	}
	if err := validateAIConfig(&cfg.AI); err != nil {
		return err
	}
	if err := validateBackupConfig(&cfg.Backup); err != nil {
		return err
	}
	return validateCacheConfig(&cfg.Cache)
}

func validateServerConfig(cfg *ServerConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return errors.Wrap(errors.ErrConfigInvalidAddr, "server.addr")
	}

	for _, t := range []struct {
		name  string
		value int64
	}{
		{"server.read_timeout", int64(cfg.ReadTimeout)},
		{"server.write_timeout", int64(cfg.WriteTimeout)},
		{"server.body_timeout", int64(cfg.BodyTimeout)},
		{"server.chat_timeout", int64(cfg.ChatTimeout)},
		{"server.finalize_timeout", int64(cfg.FinalizeTimeout)},
		{"server.summary_timeout", int64(cfg.SummaryTimeout)},
		{"server.max_body_bytes", cfg.MaxBodyBytes},
	} {
		if t.value <= 0 {
			return errors.Wrapf(errors.ErrConfigInvalidTimeout, "%s must be positive", t.name)
		}
	}
	return nil
}

func validateStorageConfig(cfg *StorageConfig) error {
	switch strings.ToLower(cfg.ColumnPolicy) {
	case "pad", "reject":
	default:
		return errors.Wrapf(errors.ErrConfigInvalidColumnPolicy,
			"storage.column_policy must be pad or reject, got %q", cfg.ColumnPolicy)
	}
	if cfg.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidTimeout,
			"storage.lock_timeout must be positive, got %s", cfg.LockTimeout)
	}
	return nil
}

func validateAIConfig(cfg *AIConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.MaxRetries < 1 || cfg.MaxRetries > 10 {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.max_retries must be between 1 and 10, got %d", cfg.MaxRetries)
	}
	if cfg.MaxTokens <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.max_tokens must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.RequestsPerSecond < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.requests_per_second cannot be negative, got %g", cfg.RequestsPerSecond)
	}
	if cfg.APIKeyEnvVar == "" {
		return errors.Wrap(errors.ErrConfigInvalidAI, "ai.api_key_env_var must not be empty")
	}
	return nil
}

func validateBackupConfig(cfg *BackupConfig) error {
	if cfg.Enabled && cfg.Retention <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidTimeout,
			"backup.retention must be positive, got %s", cfg.Retention)
	}
	return nil
}

func validateCacheConfig(cfg *CacheConfig) error {
	switch cfg.Backend {
	case CacheBackendMemory, CacheBackendNone:
	case CacheBackendRedis:
		if cfg.RedisAddr == "" {
			return errors.Wrap(errors.ErrConfigInvalidCacheBackend, "cache.redis_addr is required for redis")
		}
	default:
		return errors.Wrapf(errors.ErrConfigInvalidCacheBackend,
			"cache.backend must be memory, redis or none, got %q", cfg.Backend)
	}
	if cfg.Backend != CacheBackendNone && cfg.TTL <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidTimeout, "cache.ttl must be positive, got %s", cfg.TTL)
	}
	return nil
}
