package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._\s-]`)

// SanitizeFilename cleans a user-supplied name so it can be used as an output file name.
// It trims spaces and dots, removes parent directory references and drops anything that
// is not alphanumeric or safe punctuation.
func SanitizeFilename(filename string) string {
	sanitized := strings.Trim(filename, " .")
	sanitized = strings.ReplaceAll(sanitized, "..", "")
	sanitized = unsafeFilenameChars.ReplaceAllString(sanitized, "")
	if len(sanitized) > 255 {
		sanitized = sanitized[:255]
	}
	return sanitized
}

// DerivedFilename swaps the extension of path's base name for ext, sanitizing the result.
// "docs/User Guide.pdf" with ".json" becomes "User Guide.json".
func DerivedFilename(path, ext string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := SanitizeFilename(base)
	if name == "" {
		name = "knowledge"
	}
	return name + ext
}

// VerifyFileExists reports whether path names an existing regular file.
func VerifyFileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// GenerateExampleID returns a random identifier for a generated training example.
func GenerateExampleID() string {
	return uuid.New().String()
}
