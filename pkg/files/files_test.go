package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
	"github.com/pluqqy/tpmedit/pkg/models"
)

const testConfig = `{
  "tyres": {
    "soft": {"grip": 1.1, "wear": 3},
    "compounds": ["soft", "hard"]
  },
  "pitstops": {"base_time": 22.5}
}
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestReadWriteConfig(t *testing.T) {
	path := writeTestConfig(t)

	doc, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if got := doc.Keys(); len(got) != 2 || got[0] != "tyres" || got[1] != "pitstops" {
		t.Errorf("unexpected section order: %v", got)
	}

	if err := WriteConfig(path, doc, 4); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	again, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig after write failed: %v", err)
	}
	if !jsondoc.Equal(doc, again) {
		t.Error("document changed after write and reload")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the config file in the directory, found %d entries", len(entries))
	}
}

func TestReadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadConfig(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"a": `), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	_, err = ReadConfig(bad)
	if !errors.Is(err, jsondoc.ErrInvalidJSON) {
		t.Errorf("expected invalid JSON error, got %v", err)
	}
}

func TestWriteFileAtomicCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

	if err := WriteFileAtomic(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "{}" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)

	settings, err := ReadSettingsFile(path)
	if err != nil {
		t.Fatalf("ReadSettingsFile on missing file failed: %v", err)
	}
	if settings.ConfigPath != DefaultConfigFile {
		t.Errorf("expected default config path, got %q", settings.ConfigPath)
	}

	settings.ConfigPath = "other.json"
	settings.Sections = []models.SectionSettings{{Key: "weather", Label: "Weather"}}
	if err := WriteSettingsFile(path, settings); err != nil {
		t.Fatalf("WriteSettingsFile failed: %v", err)
	}

	loaded, err := ReadSettingsFile(path)
	if err != nil {
		t.Fatalf("ReadSettingsFile failed: %v", err)
	}
	if loaded.ConfigPath != "other.json" {
		t.Errorf("config path not persisted: %q", loaded.ConfigPath)
	}
	if len(loaded.Sections) != 1 || loaded.Sections[0].Label != "Weather" {
		t.Errorf("sections not persisted: %+v", loaded.Sections)
	}
	if loaded.Number.Decimals != 4 {
		t.Errorf("expected number settings to survive, got %+v", loaded.Number)
	}
}

func TestSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	if err := os.WriteFile(path, []byte("config_path: x.json\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	settings, err := ReadSettingsFile(path)
	if err != nil {
		t.Fatalf("ReadSettingsFile failed: %v", err)
	}
	if settings.ConfigPath != "x.json" {
		t.Errorf("expected x.json, got %q", settings.ConfigPath)
	}
	if len(settings.Sections) != 6 {
		t.Errorf("expected default sections, got %d", len(settings.Sections))
	}
}

func TestLookupRaw(t *testing.T) {
	data := []byte(testConfig)

	raw, ok := LookupRaw(data, formmap.FieldPath{formmap.Key("tyres"), formmap.Key("soft"), formmap.Key("grip")})
	if !ok || raw != "1.1" {
		t.Errorf("expected 1.1, got %q (found=%v)", raw, ok)
	}

	raw, ok = LookupRaw(data, formmap.FieldPath{formmap.Key("tyres"), formmap.Key("compounds"), formmap.Index(1)})
	if !ok || raw != `"hard"` {
		t.Errorf("expected \"hard\", got %q (found=%v)", raw, ok)
	}

	if _, ok := LookupRaw(data, formmap.FieldPath{formmap.Key("nope")}); ok {
		t.Error("expected missing path to be reported")
	}
}

func TestPatchConfigKeepsFormatting(t *testing.T) {
	path := writeTestConfig(t)
	target := formmap.FieldPath{formmap.Key("tyres"), formmap.Key("soft"), formmap.Key("wear")}

	if err := PatchConfig(path, target, jsondoc.Number("5")); err != nil {
		t.Fatalf("PatchConfig failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := strings.Replace(testConfig, `"wear": 3`, `"wear": 5`, 1)
	if string(content) != want {
		t.Errorf("unexpected patched content:\n%s", content)
	}
}

func TestPatchBytesList(t *testing.T) {
	target := formmap.FieldPath{formmap.Key("tyres"), formmap.Key("compounds")}

	out, err := PatchBytes([]byte(testConfig), target, jsondoc.NewArray("medium"))
	if err != nil {
		t.Fatalf("PatchBytes failed: %v", err)
	}

	raw, ok := LookupRaw(out, target)
	if !ok || raw != `["medium"]` {
		t.Errorf("expected [\"medium\"], got %q", raw)
	}

	if _, err := PatchBytes([]byte(testConfig), nil, "x"); !errors.Is(err, formmap.ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
}

func TestWatchReportsChange(t *testing.T) {
	path := writeTestConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := Watch(ctx, path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"a": 1}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case change, ok := <-w.Events():
		if !ok {
			t.Fatal("events channel closed unexpectedly")
		}
		abs, _ := filepath.Abs(path)
		if change.Path != abs {
			t.Errorf("expected change for %s, got %s", abs, change.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatchCloseStopsEvents(t *testing.T) {
	path := writeTestConfig(t)

	w, err := Watch(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.Close()

	if _, ok := <-w.Events(); ok {
		t.Error("expected events channel to be closed")
	}
}
