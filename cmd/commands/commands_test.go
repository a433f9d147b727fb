package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/tpmedit/internal/cli"
)

const commandsConfig = `{
    "dirty_air": {
        "enabled": true,
        "strength": 0.35,
        "curve": [{"gap": 0.5, "loss": 0.2}]
    },
    "tyres": {
        "soft": {"grip": 1.1, "cliff": [10, 12]}
    },
    "meta": {"name": "Season 2024", "tags": "fast, wet"}
}`

func writeCommandsConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCommand executes cmd under a root carrying the global flags and returns
// command output and message output separately.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	root := &cobra.Command{Use: "tpmedit", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("config", "c", "", "")
	root.PersistentFlags().StringP("output", "o", "text", "")
	root.AddCommand(cmd)

	var out, msgs bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&msgs)
	cli.SetOutput(&msgs, &msgs)
	cli.SetGlobalFlags(false, true, true)
	t.Cleanup(func() { cli.SetOutput(os.Stdout, os.Stderr) })

	root.SetArgs(append([]string{cmd.Name()}, args...))
	err := root.Execute()
	return out.String(), msgs.String(), err
}

func TestSectionsCommand(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)

	out, _, err := runCommand(t, NewSectionsCommand(), "-c", path, "-o", "json")
	require.NoError(t, err)

	var result SectionsResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, 3, result.Count)
	assert.Equal(t, "dirty_air", result.Sections[0].Key)
	assert.Equal(t, "Dirty Air", result.Sections[0].Label)
	assert.Equal(t, 4, result.Sections[0].Fields)
	assert.Equal(t, "Meta", result.Sections[2].Label)
}

func TestFieldsCommand(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)

	out, _, err := runCommand(t, NewFieldsCommand(), "tyres", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "tyres.soft.grip")
	assert.Contains(t, out, "number")
	assert.Contains(t, out, "10, 12")
	assert.NotContains(t, out, "dirty_air")

	_, _, err = runCommand(t, NewFieldsCommand(), "pitstops", "-c", path)
	assert.Error(t, err)
}

func TestGetCommand(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"number", []string{"dirty_air.strength"}, "0.35\n"},
		{"array element", []string{"dirty_air.curve.0", "--compact"}, `{"gap":0.5,"loss":0.2}` + "\n"},
		{"raw compact", []string{"tyres.soft.cliff", "--raw", "--compact"}, "[10,12]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getRaw, getCompact = false, false
			out, _, err := runCommand(t, NewGetCommand(), append(tt.args, "-c", path)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	out, _, err := runCommand(t, NewGetCommand(), "tyres.soft", "-o", "yaml", "-c", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "grip: 1.1\ncliff:\n"), out)
	assert.Contains(t, out, "- 12")

	_, _, err = runCommand(t, NewGetCommand(), "tyres.medium", "-c", path)
	assert.Error(t, err)
}

func TestSetCommand(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)

	setDryRun = false
	_, msgs, err := runCommand(t, NewSetCommand(), "dirty_air.strength", "2000000", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, msgs, "dirty_air.strength")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"strength": 1000000.0,`)
	// Untouched lines keep their layout.
	assert.Contains(t, string(data), `"soft": {"grip": 1.1, "cliff": [10, 12]}`)

	_, _, err = runCommand(t, NewSetCommand(), "tyres.soft.cliff", "8, 9", "-c", path)
	require.NoError(t, err)
	data, _ = os.ReadFile(path)
	assert.Contains(t, string(data), `"cliff": [8,9]`)

	_, _, err = runCommand(t, NewSetCommand(), "dirty_air.enabled", "maybe", "-c", path)
	assert.Error(t, err)

	_, _, err = runCommand(t, NewSetCommand(), "tyres.soft", "1", "-c", path)
	assert.Error(t, err, "groups are not editable fields")
}

func TestSetCommandDryRun(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)
	before, _ := os.ReadFile(path)

	setDryRun = true
	defer func() { setDryRun = false }()

	out, _, err := runCommand(t, NewSetCommand(), "meta.name", "Season 2025", "--dry-run", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "meta.name = \"Season 2025\"\n", out)

	after, _ := os.ReadFile(path)
	assert.Equal(t, before, after)
}

func TestExportCommand(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)
	target := filepath.Join(t.TempDir(), "out", "config.yaml")

	exportFormat, exportToFile = "json", ""
	out, _, err := runCommand(t, NewExportCommand(), "tyres", "-c", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n    \"soft\""), out)

	exportFormat, exportToFile = "json", ""
	_, _, err = runCommand(t, NewExportCommand(), "--format", "yaml", "--file", target, "-c", path)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "dirty_air:\n"), string(data))
	assert.Contains(t, string(data), "tags: fast, wet")

	exportFormat, exportToFile = "json", ""
	out, _, err = runCommand(t, NewExportCommand(), "--format", "toml", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[dirty_air]")
	assert.Contains(t, out, "[[dirty_air.curve]]")

	exportFormat, exportToFile = "json", ""
	_, _, err = runCommand(t, NewExportCommand(), "--format", "xml", "-c", path)
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	clean := writeCommandsConfig(t, `{"a": {"b": 1, "c": [1, 2]}, "d": true}`)
	_, msgs, err := runCommand(t, NewCheckCommand(), "-c", clean)
	require.NoError(t, err)
	assert.Contains(t, msgs, "unchanged")

	lossy := writeCommandsConfig(t, `{"a": {}, "b": "x, y"}`)
	out, _, err := runCommand(t, NewCheckCommand(), "-c", lossy, "-o", "json")
	require.Error(t, err)

	var result CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.RoundTrip)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, "a", result.Issues[0].Path)
	assert.Equal(t, "b", result.Issues[1].Path)

	// Lists the editor saves unchanged until they are edited.
	retyped := writeCommandsConfig(t, `{"l": [true, false], "s": ["1", "2"], "n": [1, null], "w": ["a", "b"]}`)
	out, _, err = runCommand(t, NewCheckCommand(), "-c", retyped, "-o", "json")
	require.NoError(t, err)

	result = CheckResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.RoundTrip)
	require.Len(t, result.Issues, 3)
	assert.Equal(t, "l", result.Issues[0].Path)
	assert.Contains(t, result.Issues[0].Problem, "boolean")
	assert.Equal(t, "s", result.Issues[1].Path)
	assert.Contains(t, result.Issues[1].Problem, "numeric text")
	assert.Equal(t, "n", result.Issues[2].Path)
	assert.Contains(t, result.Issues[2].Problem, "null")
}

func TestClipboardCommand(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)

	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	defer func() { clipboardWrite = orig }()

	clipboardFormat = "json"
	_, msgs, err := runCommand(t, NewClipboardCommand(), "dirty_air.curve", "--format", "yaml", "-c", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(copied, "- gap: 0.5\n"), copied)
	assert.Contains(t, copied, "loss: 0.2")
	assert.Contains(t, msgs, "Copied dirty_air.curve")
}

func TestSearchCommand(t *testing.T) {
	path := writeCommandsConfig(t, commandsConfig)

	out, _, err := runCommand(t, NewSearchCommand(), "kind:number", "value:>1", "-c", path, "-o", "json")
	require.NoError(t, err)

	var result SearchResultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "kind:number value:>1", result.Query)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "tyres.soft.grip", result.Results[0].Path)

	out, _, err = runCommand(t, NewSearchCommand(), "path:nothing", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No fields match")
}
