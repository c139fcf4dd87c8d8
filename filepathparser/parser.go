package filepathparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParsePath expands a leading ~ to the home directory and makes the path absolute.
func ParsePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		dirname, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(dirname, strings.TrimPrefix(path[1:], "/"))
	}

	return filepath.Abs(path)
}

// ParseOptionalPath is ParsePath for settings that may be left empty.
func ParseOptionalPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	return ParsePath(path)
}
