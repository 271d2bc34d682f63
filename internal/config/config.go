// Package config provides configuration management for the customizer with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (CUSTOMIZER_* prefix)
//  3. Project config (.customizer/config.yaml)
//  4. Global config (~/.customizer/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"path/filepath"
	"time"

	"github.com/mrz1836/customizer/internal/constants"
)

// Config is the root configuration structure for the customizer.
type Config struct {
	// Server contains HTTP listener and per-route timeout settings.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Storage contains settings for the tiered configuration store.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// AI contains settings for the LLM client.
	AI AIConfig `yaml:"ai" mapstructure:"ai"`

	// Backup contains settings for timestamped backups and the secondary mirror.
	Backup BackupConfig `yaml:"backup" mapstructure:"backup"`

	// Cache contains settings for the summary cache.
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Log contains settings for the rotating log file.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":3000"
	Addr string `yaml:"addr" mapstructure:"addr"`

	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// BodyTimeout bounds reading and decoding a request body.
	// Default: 5s
	BodyTimeout time.Duration `yaml:"body_timeout" mapstructure:"body_timeout"`

	// ChatTimeout bounds one conversational LLM call.
	// Default: 50s
	ChatTimeout time.Duration `yaml:"chat_timeout" mapstructure:"chat_timeout"`

	// FinalizeTimeout bounds the whole finalize pipeline.
	// Default: 150s
	FinalizeTimeout time.Duration `yaml:"finalize_timeout" mapstructure:"finalize_timeout"`

	// SummaryTimeout bounds summary generation.
	// Default: 60s
	SummaryTimeout time.Duration `yaml:"summary_timeout" mapstructure:"summary_timeout"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// StorageConfig contains configuration store settings.
type StorageConfig struct {
	// DataDir is the store root holding users/ and configurations/.
	// Default: "data"
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ColumnPolicy is "pad" or "reject".
	// Default: "pad"
	ColumnPolicy string `yaml:"column_policy" mapstructure:"column_policy"`

	// LockTimeout bounds waiting for a module lock.
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`

	// GroupsFile optionally replaces the built-in module groups with a YAML file.
	GroupsFile string `yaml:"groups_file,omitempty" mapstructure:"groups_file"`
}

// AIConfig contains settings for the LLM client.
type AIConfig struct {
	// Model is the Anthropic model identifier.
	Model string `yaml:"model" mapstructure:"model"`

	// BaseURL is the Messages API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIKeyEnvVar names the environment variable holding the API key.
	// Keys are never stored in config files.
	// Default: "ANTHROPIC_API_KEY"
	APIKeyEnvVar string `yaml:"api_key_env_var" mapstructure:"api_key_env_var"`

	// MaxTokens is the response token cap for finalize calls.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout bounds one LLM request including retries.
	// Default: 90s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of attempts for transient failures.
	// Valid range: 1-10
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// RequestsPerSecond limits outgoing LLM calls. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst is the limiter burst size.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// BackupConfig contains backup and mirror settings.
type BackupConfig struct {
	// Enabled turns timestamped backups on.
	// Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// ConfigDir receives configuration backups.
	// Default: "<data_dir>/backups/configfiles"
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`

	// CodesetDir receives codeset backups.
	// Default: "<data_dir>/backups/codefiles"
	CodesetDir string `yaml:"codeset_dir" mapstructure:"codeset_dir"`

	// MirrorDir is a secondary store root that receives a copy of every
	// user-tier write. Empty disables the mirror.
	MirrorDir string `yaml:"mirror_dir" mapstructure:"mirror_dir"`

	// Retention is how long backups are kept by cleanup.
	// Default: 720h
	Retention time.Duration `yaml:"retention" mapstructure:"retention"`
}

// Cache backend names.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// CacheConfig contains summary cache settings.
type CacheConfig struct {
	// Backend is "memory", "redis" or "none".
	// Default: "memory"
	Backend string `yaml:"backend" mapstructure:"backend"`

	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisDB   int    `yaml:"redis_db" mapstructure:"redis_db"`

	// TTL is how long a summary stays cached.
	// Default: 1h
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LogConfig contains rotating log file settings.
type LogConfig struct {
	// File is the log file path. Empty means "<global dir>/logs/customizer.log".
	File string `yaml:"file" mapstructure:"file"`

	MaxSizeMB  int `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// BackupConfigDir returns the configuration backup directory, defaulting
// under the data dir.
func (c *Config) BackupConfigDir() string {
	if c.Backup.ConfigDir != "" {
		return c.Backup.ConfigDir
	}
	return filepath.Join(c.Storage.DataDir, constants.BackupsDir, "configfiles")
}

// BackupCodesetDir returns the codeset backup directory, defaulting under
// the data dir.
func (c *Config) BackupCodesetDir() string {
	if c.Backup.CodesetDir != "" {
		return c.Backup.CodesetDir
	}
	return filepath.Join(c.Storage.DataDir, constants.BackupsDir, "codefiles")
}
