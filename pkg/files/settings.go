package files

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/tpmedit/pkg/models"
)

// ReadSettings loads the editor settings from the default settings file.
func ReadSettings() (*models.Settings, error) {
	return ReadSettingsFile(SettingsFile)
}

// ReadSettingsFile loads settings from path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func ReadSettingsFile(path string) (*models.Settings, error) {
	settings := models.DefaultSettings()

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML %s: %w", path, err)
	}

	return settings, nil
}

// WriteSettings saves settings to the default settings file.
func WriteSettings(settings *models.Settings) error {
	return WriteSettingsFile(SettingsFile, settings)
}

// WriteSettingsFile saves settings as YAML at path.
func WriteSettingsFile(path string, settings *models.Settings) error {
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := WriteFileAtomic(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}

	return nil
}
