package config

import (
	"github.com/mrz1836/customizer/internal/constants"
)

// DefaultConfig returns a new Config with default values. These match
// setDefaults and are the base layer for files, env vars and flags.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            constants.DefaultServerAddr,
			ReadTimeout:     constants.DefaultReadTimeout,
			WriteTimeout:    constants.DefaultWriteTimeout,
			BodyTimeout:     constants.DefaultBodyTimeout,
			ChatTimeout:     constants.DefaultChatTimeout,
			FinalizeTimeout: constants.DefaultFinalizeTimeout,
			SummaryTimeout:  constants.DefaultSummaryTimeout,
			MaxBodyBytes:    constants.DefaultMaxBodyBytes,
		},
		Storage: StorageConfig{
			DataDir:      constants.DefaultDataDir,
			ColumnPolicy: "pad",
			LockTimeout:  constants.DefaultLockTimeout,
		},
		AI: AIConfig{
			Model:        constants.DefaultModel,
			BaseURL:      constants.DefaultAnthropicBaseURL,
			APIKeyEnvVar: constants.DefaultAPIKeyEnvVar,
			MaxTokens:    constants.DefaultMaxTokens,
			Timeout:      constants.DefaultAITimeout,
			MaxRetries:   constants.MaxRetryAttempts,

			// Two requests per second with a small burst stays well under
			// the API's per-minute limits for a single instance.
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Backup: BackupConfig{
			Enabled:   true,
			Retention: constants.DefaultBackupRetention,
		},
		Cache: CacheConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			TTL:       constants.DefaultSummaryCacheTTL,
		},
		Log: LogConfig{
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAgeDays: constants.LogMaxAgeDays,
		},
	}
}
