package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/tpmedit/pkg/files"
)

// chdir moves the test into dir and restores the working directory afterwards
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestNewCommandContext(t *testing.T) {
	t.Run("defaults without settings file", func(t *testing.T) {
		chdir(t, t.TempDir())

		ctx, err := NewCommandContext("")
		require.NoError(t, err)
		assert.Equal(t, files.DefaultConfigFile, ctx.ConfigPath)
		assert.NotNil(t, ctx.Settings)
	})

	t.Run("override wins", func(t *testing.T) {
		chdir(t, t.TempDir())

		ctx, err := NewCommandContext("other.json")
		require.NoError(t, err)
		assert.Equal(t, "other.json", ctx.ConfigPath)
	})

	t.Run("settings file path", func(t *testing.T) {
		chdir(t, t.TempDir())
		require.NoError(t, os.WriteFile(files.SettingsFile, []byte("config_path: game/config.json\n"), 0644))

		ctx, err := NewCommandContext("")
		require.NoError(t, err)
		assert.Equal(t, "game/config.json", ctx.ConfigPath)
	})
}

func TestLoadForm(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	ctx, err := NewCommandContext("config.json")
	require.NoError(t, err)

	_, _, err = ctx.LoadForm()
	assert.ErrorContains(t, err, "Use --config")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"weather": {"rain": true}, "tyres": {"grip": 1.1}}`), 0644))

	doc, form, err := ctx.LoadForm()
	require.NoError(t, err)
	assert.Len(t, form.Fields(), 2)
	assert.Equal(t, []string{"tyres", "weather"}, ctx.SectionKeys(doc)[:2])
}
