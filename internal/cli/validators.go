package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateOutputFormat checks format against the allowed output formats
func ValidateOutputFormat(format string, allowed ...OutputFormat) error {
	if len(allowed) == 0 {
		allowed = []OutputFormat{FormatText, FormatJSON, FormatYAML}
	}

	names := make([]string, len(allowed))
	for i, f := range allowed {
		if OutputFormat(strings.ToLower(format)) == f {
			return nil
		}
		names[i] = string(f)
	}

	return fmt.Errorf("invalid output format: %s (must be: %s)", format, strings.Join(names, ", "))
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}
