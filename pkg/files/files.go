package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

const (
	SettingsFile      = ".tpmedit.yaml"
	DefaultConfigFile = "data/config.json"
)

// ReadConfig loads and parses the config document at path.
func ReadConfig(path string) (*jsondoc.Object, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	doc, err := jsondoc.ParseObject(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return doc, nil
}

// WriteConfig encodes doc and replaces the file at path.
func WriteConfig(path string, doc *jsondoc.Object, indent int) error {
	content, err := jsondoc.Marshal(doc, indent)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := WriteFileAtomic(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// WriteFileAtomic writes content to a temporary file next to path and renames
// it into place, so readers never see a partially written file.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
