package utils

import (
	"path/filepath" // Path manipulation
	"strings"       // String manipulation
)

// SanitizeFilename reduces an uploaded filename to a safe flat name.
// Directory components are dropped and anything outside a small allowed
// character set becomes an underscore, so the result can never escape
// the upload directory.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/") // Normalize Windows separators
	name = filepath.Base(name)                 // Drop any directory components
	var b strings.Builder                      // Builder for the cleaned name
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r) // Keep alphanumerics
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r) // Keep safe punctuation
		default:
			b.WriteRune('_') // Replace anything else
		}
	}
	cleaned := strings.Trim(b.String(), ".") // No leading/trailing dots, kills "." and ".."
	if cleaned == "" {
		cleaned = "upload" // Never return an empty name
	}
	return cleaned
}

// InferImageMIME maps a filename extension to an image MIME type,
// defaulting to image/png for unrecognized or absent extensions
func InferImageMIME(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) // Extension without the dot
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg" // Both spellings map to jpeg
	case "png", "gif", "webp", "bmp":
		return "image/" + ext // Known image extensions
	default:
		return "image/png" // Fallback for unknown or missing extensions
	}
}
