// Package config reads the YAML or TOML document that selects the backend, window, camera and assets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/camera"
	"github.com/Carmen-Shannon/maki-go/engine/loader"
	"github.com/Carmen-Shannon/maki-go/engine/render_thread"
	"github.com/Carmen-Shannon/maki-go/engine/renderer"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a config document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Config is the full set of settings for one render thread.
type Config struct {
	Backend   string        `yaml:"backend" toml:"backend"`
	MaxFrames uint64        `yaml:"max_frames" toml:"max_frames"`
	Window    WindowConfig  `yaml:"window" toml:"window"`
	Camera    CameraConfig  `yaml:"camera" toml:"camera"`
	Assets    loader.Assets `yaml:"assets" toml:"assets"`
	Model     ModelConfig   `yaml:"model" toml:"model"`
	Profile   ProfileConfig `yaml:"profile" toml:"profile"`
}

// WindowConfig configures the window and swap chain.
type WindowConfig struct {
	Title            string     `yaml:"title" toml:"title"`
	Width            int        `yaml:"width" toml:"width"`
	Height           int        `yaml:"height" toml:"height"`
	PresentMode      string     `yaml:"present_mode" toml:"present_mode"` // "vsync" or "uncapped"
	MSAA             int        `yaml:"msaa" toml:"msaa"`                 // 1 or 4
	ClearColor       [4]float64 `yaml:"clear_color" toml:"clear_color"`
	SoftwareRenderer bool       `yaml:"software_renderer" toml:"software_renderer"`
}

// CameraConfig sets the initial camera and how fast the driver moves it.
// Angles are in degrees. Zero values, including an all-zero position, select the defaults.
type CameraConfig struct {
	Type      string     `yaml:"type" toml:"type"`
	Fov       float32    `yaml:"fov" toml:"fov"`
	Position  [3]float32 `yaml:"position" toml:"position"`
	Yaw       float32    `yaml:"yaw" toml:"yaw"`
	Pitch     float32    `yaml:"pitch" toml:"pitch"`
	MoveSpeed float32    `yaml:"move_speed" toml:"move_speed"`
	TurnSpeed float32    `yaml:"turn_speed" toml:"turn_speed"`
}

// ModelConfig places the mesh in the world. Rotation is in degrees, applied yaw (Y), pitch (X), roll (Z).
type ModelConfig struct {
	Position [3]float32 `yaml:"position" toml:"position"`
	Rotation [3]float32 `yaml:"rotation" toml:"rotation"`
	Scale    [3]float32 `yaml:"scale" toml:"scale"`
}

// Matrix returns the column-major model matrix.
//
// Returns:
//   - [16]float32: translation * rotation * scale
func (m ModelConfig) Matrix() [16]float32 {
	var out [16]float32
	common.BuildModelMatrix(out[:],
		m.Position[0], m.Position[1], m.Position[2],
		radians(m.Rotation[0]), radians(m.Rotation[1]), radians(m.Rotation[2]),
		m.Scale[0], m.Scale[1], m.Scale[2],
	)
	return out
}

// ProfileConfig enables periodic frame statistics.
type ProfileConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Interval string `yaml:"interval" toml:"interval"` // time.ParseDuration syntax
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Backend: "wgpu",
		Window: WindowConfig{
			Title:       "maki",
			Width:       1280,
			Height:      720,
			PresentMode: "vsync",
			MSAA:        int(renderer.MSAA4x),
			ClearColor:  [4]float64{0.1, 0.1, 0.1, 1.0},
		},
		Camera: CameraConfig{
			Type:      "perspective",
			Fov:       45,
			Position:  [3]float32{0, 0, 5},
			MoveSpeed: 5,
			TurnSpeed: 90,
		},
		Model:   ModelConfig{Scale: [3]float32{1, 1, 1}},
		Profile: ProfileConfig{Interval: "1s"},
	}
}

// Load reads a config file, choosing the decoder by extension (.yaml, .yml or .toml).
// Fields the file leaves unset keep their defaults.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the decoded and validated configuration
//   - error: error if the file cannot be read, has an unknown extension, or is invalid
func Load(path string) (Config, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document and fills unset fields with defaults.
//
// Parameters:
//   - data: the document bytes
//   - format: FormatYAML or FormatTOML
//
// Returns:
//   - Config: the decoded and validated configuration
//   - error: error if decoding or validation fails
func Parse(data []byte, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that has a restricted set of values.
//
// Returns:
//   - error: the first invalid field, or nil
func (c Config) Validate() error {
	if _, err := renderer.ParseBackendType(c.Backend); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := parsePresentMode(c.Window.PresentMode); err != nil {
		return err
	}
	if c.Window.MSAA != int(renderer.MSAAOff) && c.Window.MSAA != int(renderer.MSAA4x) {
		return fmt.Errorf("msaa must be %d or %d, got %d", renderer.MSAAOff, renderer.MSAA4x, c.Window.MSAA)
	}
	if _, err := camera.ParseCameraType(c.Camera.Type); err != nil {
		return err
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180) degrees, got %g", c.Camera.Fov)
	}
	if _, err := c.Profile.interval(); err != nil {
		return err
	}
	return nil
}

// RenderThreadOptions converts the configuration into options for render_thread.NewRenderThread.
// Title, width and height are passed to NewRenderThread directly.
//
// Returns:
//   - []render_thread.RenderThreadBuilderOption: the render thread options
//   - error: error if the configuration is invalid
func (c Config) RenderThreadOptions() ([]render_thread.RenderThreadBuilderOption, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	backend, _ := renderer.ParseBackendType(c.Backend)
	presentMode, _ := parsePresentMode(c.Window.PresentMode)
	camType, _ := camera.ParseCameraType(c.Camera.Type)

	options := []render_thread.RenderThreadBuilderOption{
		render_thread.WithBackend(backend),
		render_thread.WithRendererOptions(
			renderer.WithPresentMode(presentMode),
			renderer.WithMSAA(renderer.MSAASampleCount(c.Window.MSAA)),
			renderer.WithClearColor(c.Window.ClearColor),
			renderer.WithForceSoftwareRenderer(c.Window.SoftwareRenderer),
			renderer.WithMaxFrames(c.MaxFrames),
			renderer.WithCameraOptions(
				camera.WithType(camType),
				camera.WithFov(radians(c.Camera.Fov)),
				camera.WithPosition(c.Camera.Position[0], c.Camera.Position[1], c.Camera.Position[2]),
				camera.WithRotation(radians(c.Camera.Yaw), radians(c.Camera.Pitch)),
			),
		),
		render_thread.WithCameraDriverOptions(
			camera.WithMoveSpeed(c.Camera.MoveSpeed),
			camera.WithTurnSpeed(radians(c.Camera.TurnSpeed)),
		),
		render_thread.WithAssets(c.Assets),
		render_thread.WithModelTransform(c.Model.Matrix()),
	}
	if c.Profile.Enabled {
		interval, _ := c.Profile.interval()
		options = append(options, render_thread.WithProfiling(interval))
	}
	return options, nil
}

// --- internal helpers ---

func (c *Config) applyDefaults() {
	d := Default()
	c.Backend = common.Coalesce(c.Backend, d.Backend)

	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, d.Window.Height)
	c.Window.PresentMode = common.Coalesce(c.Window.PresentMode, d.Window.PresentMode)
	c.Window.MSAA = common.Coalesce(c.Window.MSAA, d.Window.MSAA)
	c.Window.ClearColor = common.Coalesce(c.Window.ClearColor, d.Window.ClearColor)

	c.Camera.Type = common.Coalesce(c.Camera.Type, d.Camera.Type)
	c.Camera.Fov = common.Coalesce(c.Camera.Fov, d.Camera.Fov)
	c.Camera.Position = common.Coalesce(c.Camera.Position, d.Camera.Position)
	c.Camera.MoveSpeed = common.Coalesce(c.Camera.MoveSpeed, d.Camera.MoveSpeed)
	c.Camera.TurnSpeed = common.Coalesce(c.Camera.TurnSpeed, d.Camera.TurnSpeed)

	c.Model.Scale = common.Coalesce(c.Model.Scale, d.Model.Scale)

	c.Profile.Interval = common.Coalesce(c.Profile.Interval, d.Profile.Interval)
}

func (p ProfileConfig) interval() (time.Duration, error) {
	d, err := time.ParseDuration(p.Interval)
	if err != nil {
		return 0, fmt.Errorf("profile interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("profile interval must be positive, got %s", d)
	}
	return d, nil
}

func parsePresentMode(s string) (renderer.PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vsync":
		return renderer.PresentModeVSync, nil
	case "uncapped", "immediate":
		return renderer.PresentModeUncapped, nil
	default:
		return 0, fmt.Errorf("unknown present mode %q", s)
	}
}

func radians(degrees float32) float32 {
	return degrees * math.Pi / 180
}
