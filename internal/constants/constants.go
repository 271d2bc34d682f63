// Package constants provides centralized constant values used throughout the customizer.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// File names inside a module directory.
const (
	// ConfigFileName is the tabular field-configuration CSV of a module.
	ConfigFileName = "config.csv"

	// CodesetFileName is the hierarchical codeset-values CSV of a module.
	CodesetFileName = "codesetvalues.csv"

	// LockFileSuffix is appended to a module directory name to form its lock file.
	LockFileSuffix = ".lock"
)

// Directory names and paths used for the tiered configuration hierarchy.
const (
	// CustomizerHome is the hidden directory name where global settings and logs live.
	CustomizerHome = ".customizer"

	// DefaultDataDir is the default root of the configuration hierarchy.
	DefaultDataDir = "data"

	// UsersDir holds the user tier: users/{org}/{module}/.
	UsersDir = "users"

	// ConfigurationsDir holds the shared template tiers.
	ConfigurationsDir = "configurations"

	// IndustryConfigurationsDir holds industry templates: {industry}/{module}/.
	IndustryConfigurationsDir = "industry-configurations"

	// BaseConfigurationsDir holds base templates: {module}/.
	BaseConfigurationsDir = "base-configurations"

	// BackupsDir holds timestamped backup copies.
	BackupsDir = "backups"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// File format tokens.
const (
	// OrgKeyPlaceholder is the codeset header token replaced by the live organization key.
	OrgKeyPlaceholder = "FIELDMOBI_DEFAULT"

	// CustomizationLabel is written into cell B of the module identity line.
	CustomizationLabel = "Customization"

	// CodesetStubContent is written when neither template tier carries a codeset file.
	CodesetStubContent = "key,value\n"
)

// Timeout configurations for request handling.
const (
	// DefaultBodyTimeout bounds decoding of an incoming request body.
	DefaultBodyTimeout = 5 * time.Second

	// DefaultChatTimeout bounds a conversational LLM turn.
	DefaultChatTimeout = 50 * time.Second

	// DefaultFinalizeTimeout bounds the finalize LLM call.
	DefaultFinalizeTimeout = 150 * time.Second

	// DefaultSummaryTimeout bounds the configuration summary LLM call.
	DefaultSummaryTimeout = 60 * time.Second

	// DefaultAITimeout is the default per-attempt timeout of the LLM client.
	DefaultAITimeout = 90 * time.Second

	// DefaultLockTimeout bounds the wait for a module lock.
	DefaultLockTimeout = 5 * time.Second

	// LockRetryInterval is the sleep between lock acquisition attempts.
	LockRetryInterval = 50 * time.Millisecond
)

// Retry configuration defaults for recoverable operations.
const (
	// MaxRetryAttempts is the maximum number of LLM attempts for transient errors.
	MaxRetryAttempts = 3

	// InitialBackoff is the initial delay before the first retry.
	InitialBackoff = 1 * time.Second

	// MaxBackoff caps the exponential backoff delay.
	MaxBackoff = 30 * time.Second

	// BackoffMultiplier is the factor by which the backoff grows each retry.
	BackoffMultiplier = 2.0
)

// LLM defaults.
const (
	// DefaultModel is the Anthropic model used when none is configured.
	DefaultModel = "claude-3-5-sonnet-20241022"

	// DefaultAnthropicBaseURL is the Messages API root.
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"

	// AnthropicVersion is sent as the anthropic-version header.
	AnthropicVersion = "2023-06-01"

	// DefaultAPIKeyEnvVar names the environment variable holding the API key.
	DefaultAPIKeyEnvVar = "ANTHROPIC_API_KEY"

	// DefaultMaxTokens is the response token ceiling.
	DefaultMaxTokens = 4096

	// SummaryMaxTokens is the response token ceiling for summaries.
	SummaryMaxTokens = 1000

	// FinalizeTemperature keeps generated CSV output stable.
	FinalizeTemperature = 0.2

	// ConversationTemperature is used for chat and summaries.
	ConversationTemperature = 0.7
)

// Backup and logging settings.
const (
	// DefaultBackupRetention is how long backup files are kept.
	DefaultBackupRetention = 30 * 24 * time.Hour

	// BackupTimestampLayout formats backup file timestamps as YYYYMMDDHHMMSS.
	BackupTimestampLayout = "20060102150405"

	// DefaultSummaryCacheTTL is how long a generated configuration summary is reused.
	DefaultSummaryCacheTTL = 1 * time.Hour

	// LogMaxSizeMB is the rotation threshold of the log file.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the age after which rotated log files are removed.
	LogMaxAgeDays = 7

	// LogFileName is the name of the rotating log file.
	LogFileName = "customizer.log"
)

// Server defaults.
const (
	// DefaultServerAddr is the listen address of the HTTP API.
	DefaultServerAddr = ":3000"

	// DefaultMaxBodyBytes caps request body size.
	DefaultMaxBodyBytes = 4 << 20

	// DefaultReadTimeout bounds reading a whole request.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout must exceed DefaultFinalizeTimeout.
	DefaultWriteTimeout = 180 * time.Second
)
