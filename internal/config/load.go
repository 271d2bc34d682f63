package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/customizer/internal/errors"
)

// EnvPrefix is the environment variable prefix for every config key.
const EnvPrefix = "CUSTOMIZER"

// newViperInstance creates a Viper instance with the env prefix, key
// replacer and defaults applied.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (CUSTOMIZER_* prefix)
//  2. Project config (.customizer/config.yaml)
//  3. Global config (~/.customizer/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead. Missing config
// files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("storage.data_dir", cfg.Storage.DataDir).
		Str("cache.backend", cfg.Cache.Backend).
		Str("ai.model", cfg.AI.Model).
		Dur("ai.timeout", cfg.AI.Timeout).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.customizer/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(globalConfigPath); err != nil {
		return "", false
	}
	return globalConfigPath, true
}

// loadProjectConfig attempts to load the project config file (.customizer/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// Either path can be empty to skip that level; projectConfigPath wins.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.body_timeout", d.Server.BodyTimeout)
	v.SetDefault("server.chat_timeout", d.Server.ChatTimeout)
	v.SetDefault("server.finalize_timeout", d.Server.FinalizeTimeout)
	v.SetDefault("server.summary_timeout", d.Server.SummaryTimeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.column_policy", d.Storage.ColumnPolicy)
	v.SetDefault("storage.lock_timeout", d.Storage.LockTimeout)
	v.SetDefault("storage.groups_file", "")

	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.api_key_env_var", d.AI.APIKeyEnvVar)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)
	v.SetDefault("ai.requests_per_second", d.AI.RequestsPerSecond)
	v.SetDefault("ai.burst", d.AI.Burst)

	v.SetDefault("backup.enabled", d.Backup.Enabled)
	v.SetDefault("backup.config_dir", "")
	v.SetDefault("backup.codeset_dir", "")
	v.SetDefault("backup.mirror_dir", "")
	v.SetDefault("backup.retention", d.Backup.Retention)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: Backup.Enabled cannot be overridden to false here because the
// zero value is indistinguishable from unset. CLI code handles it with
// cmd.Flags().Changed.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Server.Addr != "" {
		cfg.Server.Addr = overrides.Server.Addr
	}
	if overrides.Storage.DataDir != "" {
		cfg.Storage.DataDir = overrides.Storage.DataDir
	}
	if overrides.Storage.ColumnPolicy != "" {
		cfg.Storage.ColumnPolicy = overrides.Storage.ColumnPolicy
	}
	if overrides.Storage.GroupsFile != "" {
		cfg.Storage.GroupsFile = overrides.Storage.GroupsFile
	}
	applyAIOverrides(cfg, overrides)
	if overrides.Backup.MirrorDir != "" {
		cfg.Backup.MirrorDir = overrides.Backup.MirrorDir
	}
	if overrides.Cache.Backend != "" {
		cfg.Cache.Backend = overrides.Cache.Backend
	}
	if overrides.Cache.RedisAddr != "" {
		cfg.Cache.RedisAddr = overrides.Cache.RedisAddr
	}
}

// applyAIOverrides applies AI-related overrides to the config.
func applyAIOverrides(cfg, overrides *Config) {
	if overrides.AI.Model != "" {
		cfg.AI.Model = overrides.AI.Model
	}
	if overrides.AI.BaseURL != "" {
		cfg.AI.BaseURL = overrides.AI.BaseURL
	}
	if overrides.AI.Timeout != 0 {
		cfg.AI.Timeout = overrides.AI.Timeout
	}
	if overrides.AI.MaxTokens != 0 {
		cfg.AI.MaxTokens = overrides.AI.MaxTokens
	}
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

