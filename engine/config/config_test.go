package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	opts, err := Default().RenderThreadOptions()
	require.NoError(t, err)
	assert.NotEmpty(t, opts)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "maki.yaml", `
backend: none
max_frames: 120
window:
  title: cube
  width: 800
  height: 600
  present_mode: uncapped
  msaa: 1
camera:
  type: orthographic
  fov: 60
  position: [1, 2, 3]
assets:
  mesh: meshes/cube.yaml
profile:
  enabled: true
  interval: 500ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Backend)
	assert.Equal(t, uint64(120), cfg.MaxFrames)
	assert.Equal(t, "cube", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 1, cfg.Window.MSAA)
	assert.Equal(t, "orthographic", cfg.Camera.Type)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, "meshes/cube.yaml", cfg.Assets.Mesh)
	assert.True(t, cfg.Profile.Enabled)

	// Unset fields keep their defaults.
	assert.Equal(t, Default().Window.ClearColor, cfg.Window.ClearColor)
	assert.Equal(t, Default().Camera.MoveSpeed, cfg.Camera.MoveSpeed)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "maki.toml", `
backend = "wgpu"

[window]
title = "toml cube"
clear_color = [0.0, 0.0, 0.0, 1.0]

[camera]
yaw = 90.0
turn_speed = 45.0

[assets]
vertex_shader = "shaders/v.wgsl"
fragment_shader = "shaders/f.wgsl"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wgpu", cfg.Backend)
	assert.Equal(t, "toml cube", cfg.Window.Title)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, cfg.Window.ClearColor)
	assert.Equal(t, float32(90), cfg.Camera.Yaw)
	assert.Equal(t, float32(45), cfg.Camera.TurnSpeed)
	assert.Equal(t, "shaders/v.wgsl", cfg.Assets.VertexShader)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestEmptyYAMLIsDefault(t *testing.T) {
	cfg, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "maki.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Parse([]byte("{}"), Format("ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnknownFieldsAreRejected(t *testing.T) {
	_, err := Parse([]byte("windw:\n  title: typo\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte("[windw]\ntitle = \"typo\"\n"), FormatTOML)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "opengl" }},
		{"width", func(c *Config) { c.Window.Width = -1 }},
		{"present mode", func(c *Config) { c.Window.PresentMode = "mailbox" }},
		{"msaa", func(c *Config) { c.Window.MSAA = 8 }},
		{"camera type", func(c *Config) { c.Camera.Type = "fisheye" }},
		{"fov", func(c *Config) { c.Camera.Fov = 180 }},
		{"interval", func(c *Config) { c.Profile.Interval = "soon" }},
		{"negative interval", func(c *Config) { c.Profile.Interval = "-1s" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := cfg.RenderThreadOptions()
			assert.Error(t, err)
		})
	}
}

func TestModelMatrix(t *testing.T) {
	assert.Equal(t, common.IdentityMatrix(), Default().Model.Matrix())

	cfg, err := Parse([]byte("model:\n  position: [1, 2, 3]\n  rotation: [0, 90, 0]\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{1, 1, 1}, cfg.Model.Scale)

	m := cfg.Model.Matrix()
	assert.Equal(t, []float32{1, 2, 3}, m[12:15])
	// A 90 degree yaw maps local +X onto world -Z.
	assert.InDeltaSlice(t, []float32{0, 0, -1}, m[0:3], 1e-6)
}

func TestRadians(t *testing.T) {
	assert.InDelta(t, 3.14159265, radians(180), 1e-6)
	assert.Zero(t, radians(0))
}
