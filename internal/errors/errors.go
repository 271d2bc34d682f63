// Package errors provides centralized error handling for the customizer.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for request and parameter handling.
var (
	// ErrMissingParameters indicates that required request fields are absent.
	ErrMissingParameters = errors.New("missing required parameters")

	// ErrInvalidParameters indicates that an organization, module or user key
	// has an invalid format.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrRequestTimeout indicates that the LLM call or body decode timer elapsed.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInvalidRequestBody indicates that a request body could not be decoded.
	ErrInvalidRequestBody = errors.New("invalid request body")

	// ErrNotConfirmed indicates that a confirm request did not carry confirmation.
	ErrNotConfirmed = errors.New("changes not confirmed")
)

// Sentinel errors for the configuration store.
var (
	// ErrNoConfigurationFound indicates that none of the user, industry or base
	// tiers has a configuration file for the requested module.
	ErrNoConfigurationFound = errors.New("no configuration found")

	// ErrPathTraversal indicates that a key would escape the data directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrLockTimeout indicates that the module lock could not be acquired in time.
	ErrLockTimeout = errors.New("lock acquisition timeout")
)

// Sentinel errors for the CSV codecs.
var (
	// ErrMalformedDocument indicates that a configuration CSV has no field-header
	// line or a row violates the column-count policy.
	ErrMalformedDocument = errors.New("malformed configuration document")

	// ErrHeaderIntegrity indicates that a codeset header row does not carry the
	// expected organization key.
	ErrHeaderIntegrity = errors.New("codeset header integrity check failed")

	// ErrCodesetOrphan indicates that a codeset entry's parent path does not
	// resolve to an entry on the level above.
	ErrCodesetOrphan = errors.New("codeset entry has no parent")

	// ErrInvalidStructure indicates that a document parsed but breaks a
	// structural rule such as contiguous field codes or NEVER row immutability.
	ErrInvalidStructure = errors.New("invalid configuration structure")
)

// Sentinel errors for the LLM customization service.
var (
	// ErrMissingConfigurationSection indicates that an LLM response has no
	// CONFIGURATION: section or the section is empty.
	ErrMissingConfigurationSection = errors.New("configuration section is missing or empty")

	// ErrLLMInvocation indicates that the LLM API call failed.
	ErrLLMInvocation = errors.New("llm invocation failed")

	// ErrAIEmptyResponse indicates that the LLM returned no text content.
	ErrAIEmptyResponse = errors.New("ai returned empty response")

	// ErrAIInvalidFormat indicates that the LLM response could not be decoded.
	ErrAIInvalidFormat = errors.New("invalid response format from ai")

	// ErrAPIKeyMissing indicates that no API key is available for the LLM client.
	ErrAPIKeyMissing = errors.New("api key not configured")

	// ErrRateLimited indicates that the LLM API rejected the call with HTTP 429.
	ErrRateLimited = errors.New("rate limited by ai provider")
)

// Sentinel errors for group sync and backups.
var (
	// ErrGroupSyncFailed indicates that propagation to sibling modules aborted.
	ErrGroupSyncFailed = errors.New("failed to synchronize group configurations")

	// ErrUnknownModule indicates that a module key is not in the catalog.
	ErrUnknownModule = errors.New("unknown module")

	// ErrDuplicateGroupMember indicates that a module key was registered in
	// more than one group.
	ErrDuplicateGroupMember = errors.New("module belongs to more than one group")
)

// Sentinel errors for application configuration.
var (
	// ErrConfigNil indicates that a nil configuration was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidAddr indicates that the server listen address is empty.
	ErrConfigInvalidAddr = errors.New("server address must not be empty")

	// ErrConfigInvalidTimeout indicates that a configured timeout is not positive.
	ErrConfigInvalidTimeout = errors.New("timeout must be positive")

	// ErrConfigInvalidColumnPolicy indicates an unknown column policy name.
	ErrConfigInvalidColumnPolicy = errors.New("invalid column policy")

	// ErrConfigInvalidCacheBackend indicates an unknown cache backend name.
	ErrConfigInvalidCacheBackend = errors.New("invalid cache backend")

	// ErrConfigInvalidAI indicates an invalid AI section value.
	ErrConfigInvalidAI = errors.New("invalid ai configuration")

	// ErrEmptyValue indicates that a required value is empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrMenuCanceled indicates that an interactive prompt was aborted or no
	// terminal is attached.
	ErrMenuCanceled = errors.New("menu canceled")

	// ErrInvalidOutputFormat indicates an unknown --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrValidationFailed indicates that a file failed an offline check.
	ErrValidationFailed = errors.New("validation failed")

	// ErrBackupsDisabled indicates a backup operation with backup.enabled off.
	ErrBackupsDisabled = errors.New("backups are disabled")
)
