package errors

import (
	"strings"
	"unicode"
)

// Canvas bounds accepted by ValidateCanvas. The engine never clips tables,
// so these only guard against nonsensical input.
const (
	MinCanvasSize = 100
	MaxCanvasSize = 100000
)

// ValidateTableName validates a table name received from an untrusted
// source such as the HTTP API.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 512 characters
//
// Quoting and percent-encoding are allowed; they are normalized later.
func ValidateTableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "table name cannot be empty")
	}

	if len(name) > 512 {
		return New(ErrCodeInvalidInput, "table name too long (max 512 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "table name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateCanvas validates caller-supplied canvas dimensions.
func ValidateCanvas(width, height int) error {
	if width < MinCanvasSize || width > MaxCanvasSize {
		return New(ErrCodeInvalidCanvas, "canvas width %d out of range [%d, %d]", width, MinCanvasSize, MaxCanvasSize)
	}
	if height < MinCanvasSize || height > MaxCanvasSize {
		return New(ErrCodeInvalidCanvas, "canvas height %d out of range [%d, %d]", height, MinCanvasSize, MaxCanvasSize)
	}
	return nil
}

// ValidatePath validates a local file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
