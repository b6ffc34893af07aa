package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local/share/pngcard/library.db"), cfg.LibraryPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, Render{Width: 400, Height: 600, MaxDescriptionLines: 8}, cfg.Render)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
library_path = "`+filepath.ToSlash(filepath.Join(dir, "cards.db"))+`"
log_level = " DEBUG "
log_format = "JSON"

[render]
max_description_lines = 4
`)

	cfg, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(dir, "cards.db"), cfg.LibraryPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 4, cfg.Render.MaxDescriptionLines)
	assert.Equal(t, 400, cfg.Render.Width, "unset keys keep defaults")
}

func TestLoad_RoundTripsMarshaledConfig(t *testing.T) {
	custom := Default()
	custom.LibraryPath = filepath.Join(t.TempDir(), "lib.db")
	custom.Render.Width = 200
	custom.Render.Height = 300

	data, err := toml.Marshal(custom)
	require.NoError(t, err)
	path := writeConfig(t, string(data))

	cfg, _, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, custom, *cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		errMsg   string
	}{
		{"bad toml", "log_level = ", "parse config"},
		{"unknown key", "colour = \"red\"", "parse config"},
		{"bad level", `log_level = "loud"`, "log_level must be one of"},
		{"bad format", `log_format = "xml"`, "log_format must be text or json"},
		{"tiny canvas", "[render]\nwidth = 10", "render.width and render.height"},
		{"square canvas", "[render]\nwidth = 400\nheight = 400", "must be 2:3"},
		{"width only", "[render]\nwidth = 300", "must be 2:3"},
		{"zero lines", "[render]\nmax_description_lines = 0", "max_description_lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_DirectoryIsRejected(t *testing.T) {
	_, _, _, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "pngcard", "config.toml"), path)
}

func TestDefaultConfigPath_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "pngcard", "config.toml"), path)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/cards/lib.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cards", "lib.db"), got)

	got, err = ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
