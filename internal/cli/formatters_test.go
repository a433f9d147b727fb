package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableFormatter(&buf)
	table.Header("PATH", "VALUE")
	table.Row("tyres.soft.grip", "1.1")
	table.Row("notes", "wet")
	table.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "PATH"))
	assert.True(t, strings.HasPrefix(lines[1], "----  "), lines[1])
	assert.Equal(t, "-----", strings.TrimSpace(lines[1][strings.Index(lines[0], "VALUE"):]))
	assert.Equal(t, strings.Index(lines[0], "VALUE"), strings.Index(lines[2], "1.1"), "columns should align")
}

func TestOutputResults(t *testing.T) {
	data := struct {
		Path  string `json:"path" yaml:"path"`
		Count int    `json:"count" yaml:"count"`
	}{Path: "tyres", Count: 2}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputResults(&buf, "json", data))
		assert.JSONEq(t, `{"path":"tyres","count":2}`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputResults(&buf, "yaml", data))
		assert.Equal(t, "path: tyres\ncount: 2\n", buf.String())
	})

	t.Run("unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputResults(&buf, "xml", data))
	})

	t.Run("text is rendered by commands", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputResults(&buf, "text", data))
		assert.Empty(t, buf.String())
	})
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"a longer value", 8, "a lon..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateString(tt.in, tt.maxLen), "TruncateString(%q, %d)", tt.in, tt.maxLen)
	}
}

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat("json"))
	assert.NoError(t, ValidateOutputFormat("YAML"))
	assert.Error(t, ValidateOutputFormat("xml"))

	err := ValidateOutputFormat("text", FormatJSON, FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, yaml")
}

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	assert.NoError(t, ValidateFilePath(file))
	assert.ErrorContains(t, ValidateFilePath(filepath.Join(dir, "missing.json")), "does not exist")
	assert.ErrorContains(t, ValidateFilePath(dir), "directory")
}

func TestWriteHighlightedPlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	data := []byte("{\n    \"grip\": 1.1\n}\n")

	require.NoError(t, WriteHighlighted(&buf, data, "json"))
	assert.Equal(t, string(data), buf.String())
	assert.False(t, ColorEnabled(&buf))
}

func TestHighlightKeepsText(t *testing.T) {
	out, err := highlight(`{"grip": 1.1}`, "json")
	require.NoError(t, err)
	assert.Contains(t, out, "grip")
	assert.Contains(t, out, "\x1b[", "expected terminal escape codes")
}
