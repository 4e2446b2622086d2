package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = parseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maki.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: wgpu\nwindow:\n  title: from file\n  width: 640\n"), 0o644))

	f := rootCmd.Flags()
	require.NoError(t, f.Set("config", path))
	require.NoError(t, f.Set("backend", "none"))
	require.NoError(t, f.Set("max-frames", "3"))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Backend)
	assert.Equal(t, "from file", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, uint64(3), cfg.MaxFrames)
}
