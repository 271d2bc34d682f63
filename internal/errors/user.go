package errors

import (
	"errors"
	"net/http"
)

// ErrorInfo holds user-facing message, suggested action and HTTP status for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
	// Status is the HTTP status code the API layer responds with.
	Status int
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
// Order matters for errors that wrap more than one sentinel: the first match wins.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Request parameters
	// ===================
	{
		err: ErrMissingParameters,
		info: ErrorInfo{
			Message: "Missing required parameters.",
			Action:  "Provide org_key and module_key (and industry when no user configuration exists).",
			Status:  http.StatusBadRequest,
		},
	},
	{
		err: ErrInvalidParameters,
		info: ErrorInfo{
			Message: "Invalid parameters.",
			Action:  "Organization keys allow letters, digits, '.', '_' and '-'. Module keys are uppercase with underscores.",
			Status:  http.StatusBadRequest,
		},
	},
	{
		err: ErrInvalidRequestBody,
		info: ErrorInfo{
			Message: "Request body could not be parsed.",
			Action:  "Send a valid JSON body.",
			Status:  http.StatusBadRequest,
		},
	},
	{
		err: ErrNotConfirmed,
		info: ErrorInfo{
			Message: "Changes were not confirmed.",
			Status:  http.StatusBadRequest,
		},
	},
	{
		err: ErrRequestTimeout,
		info: ErrorInfo{
			Message: "Request timed out. Please try again.",
			Action:  "Retry the request, or shorten the conversation before finalizing.",
			Status:  http.StatusGatewayTimeout,
		},
	},

	// ===================
	// Store
	// ===================
	{
		err: ErrNoConfigurationFound,
		info: ErrorInfo{
			Message: "No configuration found for this module.",
			Action:  "Check the module key and industry, or add a base configuration for the module.",
			Status:  http.StatusNotFound,
		},
	},
	{
		err: ErrPathTraversal,
		info: ErrorInfo{
			Message: "Invalid key: path traversal is not allowed.",
			Status:  http.StatusBadRequest,
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Configuration is being updated by another request.",
			Action:  "Wait a moment and retry.",
			Status:  http.StatusConflict,
		},
	},

	// ===================
	// Codecs
	// ===================
	{
		err: ErrMalformedDocument,
		info: ErrorInfo{
			Message: "Configuration file is malformed.",
			Action:  "Make sure the file has a 'Field Code' header line and consistent column counts.",
			Status:  http.StatusInternalServerError,
		},
	},
	{
		err: ErrHeaderIntegrity,
		info: ErrorInfo{
			Message: "Codeset header does not carry the organization key.",
			Status:  http.StatusInternalServerError,
		},
	},
	{
		err: ErrCodesetOrphan,
		info: ErrorInfo{
			Message: "Codeset contains entries without a parent on the level above.",
			Status:  http.StatusUnprocessableEntity,
		},
	},
	{
		err: ErrInvalidStructure,
		info: ErrorInfo{
			Message: "Configuration structure is invalid.",
			Status:  http.StatusUnprocessableEntity,
		},
	},

	// ===================
	// AI
	// ===================
	{
		err: ErrMissingConfigurationSection,
		info: ErrorInfo{
			Message: "Configuration section is missing or empty.",
			Action:  "Retry finalization. The assistant response did not contain a CONFIGURATION: section.",
			Status:  http.StatusInternalServerError,
		},
	},
	{
		err: ErrAPIKeyMissing,
		info: ErrorInfo{
			Message: "AI API key is not configured.",
			Action:  "Set ANTHROPIC_API_KEY or ai.api_key_env_var in the config file.",
			Status:  http.StatusInternalServerError,
		},
	},
	{
		err: ErrRateLimited,
		info: ErrorInfo{
			Message: "AI provider rate limit reached.",
			Action:  "Wait a minute and retry.",
			Status:  http.StatusTooManyRequests,
		},
	},
	{
		err: ErrAIEmptyResponse,
		info: ErrorInfo{
			Message: "AI returned an empty response.",
			Action:  "Retry the request.",
			Status:  http.StatusBadGateway,
		},
	},
	{
		err: ErrAIInvalidFormat,
		info: ErrorInfo{
			Message: "Invalid response format from AI.",
			Status:  http.StatusBadGateway,
		},
	},
	{
		err: ErrLLMInvocation,
		info: ErrorInfo{
			Message: "Failed to communicate with the AI provider.",
			Action:  "Verify ANTHROPIC_API_KEY is set correctly and you have network access.",
			Status:  http.StatusBadGateway,
		},
	},

	// ===================
	// Sync and catalog
	// ===================
	{
		err: ErrGroupSyncFailed,
		info: ErrorInfo{
			Message: "Failed to synchronize group configurations.",
			Status:  http.StatusInternalServerError,
		},
	},
	{
		err: ErrUnknownModule,
		info: ErrorInfo{
			Message: "Unknown module.",
			Action:  "Run 'customizer modules' to list known module keys.",
			Status:  http.StatusNotFound,
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrMenuCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
			Status:  http.StatusBadRequest,
		},
	},
	{
		err: ErrValidationFailed,
		info: ErrorInfo{
			Message: "Validation failed.",
			Status:  http.StatusUnprocessableEntity,
		},
	},
	{
		err: ErrBackupsDisabled,
		info: ErrorInfo{
			Message: "Backups are disabled.",
			Action:  "Set backup.enabled: true or CUSTOMIZER_BACKUP_ENABLED=true.",
			Status:  http.StatusConflict,
		},
	},
}

//nolint:gochecknoglobals // Built once at init for O(1) lookups
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message and a 500 status if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error(), Status: http.StatusInternalServerError}
}

// UserMessage returns a user-friendly message for common errors.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}

// HTTPStatus maps an error to the status code the API responds with.
// Unknown errors and generic I/O failures map to 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	info := getErrorInfo(err)
	if info.Status == 0 {
		return http.StatusInternalServerError
	}
	return info.Status
}
