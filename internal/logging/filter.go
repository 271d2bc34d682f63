// Package logging keeps credentials and personal data out of log output.
// It provides a zerolog hook, a redacting io.Writer for log files and
// helpers for values logged at call sites.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match credential formats that can reach a log line:
// LLM keys, auth headers, and passwords embedded in Redis URLs.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// Anthropic API keys (sk-ant-...)
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`),

	// Anthropic key header echoed in request dumps
	regexp.MustCompile(`(?i)x-api-key\s*[:=]\s*["']?[^\s"',]+["']?`),

	// Generic API keys
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`),

	// Authorization headers with tokens
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[a-zA-Z0-9_-]{20,}["']?`),

	// Passwords and secrets with values
	regexp.MustCompile(`(?i)(secret|password|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// Credentials in redis:// and rediss:// URLs
	regexp.MustCompile(`(?i)rediss?://[^\s/@]*:[^\s/@]+@`),
}

// sensitiveFieldNames are field names whose values are always redacted.
// Matching is case-insensitive and by substring.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"api_key",
	"apikey",
	"api-key",
	"x-api-key",
	"auth_token",
	"password",
	"passwd",
	"secret",
	"authorization",
	"bearer",
	"anthropic_api_key",
	"redis_password",
}

// SensitiveDataHook is a zerolog hook that flags events whose message
// contains sensitive data. zerolog does not let a hook rewrite a message, so
// redaction of the bytes happens in FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field name indicates sensitive data.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue returns [REDACTED] for sensitive field names and the filtered
// value otherwise.
//
//	log.Info().Str("redis_url", logging.SafeValue("redis_url", url)).Msg("cache connected")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// MaskEmail keeps the first character of the local part and the domain:
// "jane.doe@acme.io" becomes "j***@acme.io". User keys are emails and are
// logged through this.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// FilteringWriter wraps an io.Writer and redacts sensitive data from
// everything written through it. Log files are wrapped with it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter around w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers never
// see a short write caused by redaction.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
