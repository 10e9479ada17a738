package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks
// when a name is later used to build cache keys or file paths.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (.., //)
//   - No backslashes
//   - Maximum length of 256 characters
//
// Ecosystem-specific naming rules are the producer's concern; the graph engine
// only requires names that are safe to use as identifiers.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateVersion validates a package version string.
// Empty versions are allowed: a package identity may omit its version.
func ValidateVersion(version string) error {
	if len(version) > 128 {
		return New(ErrCodeInvalidPackage, "version too long (max 128 characters)")
	}
	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "version contains invalid control characters")
		}
	}
	return nil
}

// ValidateNodeID validates an opaque node identifier.
// Node ids appear in serialized documents and as map keys, so they must be
// non-empty printable strings.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}
