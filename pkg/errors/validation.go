package errors

import (
	"strings"
	"unicode"
)

// ValidateFieldName validates a submission field name.
// Field names travel as multipart form names and as JSON object keys in
// the durable queue, so they must be printable and reasonably short.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No quotes (they would break Content-Disposition headers)
//   - Maximum length of 128 characters
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "field name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "field name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "field name %q contains whitespace or control characters", name)
		}
		if r == '"' || r == '\'' {
			return New(ErrCodeInvalidInput, "field name %q contains quotes", name)
		}
	}
	return nil
}

// ValidateQueueKey validates a durable queue key.
// File-backed queues use the key as a filename, so it must be a simple
// basename without path components.
func ValidateQueueKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidConfig, "queue key cannot be empty")
	}

	if len(key) > 200 {
		return New(ErrCodeInvalidConfig, "queue key too long (max 200 characters)")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidConfig, "queue key contains invalid characters: %q", pattern)
		}
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "queue key contains invalid control characters")
		}
	}
	return nil
}
