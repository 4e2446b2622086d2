package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/config"
	"github.com/Carmen-Shannon/maki-go/engine/render_thread"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maki",
	Short: "Render a camera-driven scene on a dedicated render thread",
	Long: `maki opens a window and renders a mesh with a free-flight camera
(W/A/S/D, Space/Shift, Q/E and arrow keys; Escape closes the window).
Settings come from an optional YAML or TOML file; flags override it.`,
	Version:      "0.1.0",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

var flags struct {
	configPath string
	backend    string
	title      string
	width      int
	height     int
	logLevel   string
	maxFrames  uint64
	profile    bool
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	f.StringVar(&flags.backend, "backend", "", "renderer backend: wgpu or none")
	f.StringVar(&flags.title, "title", "", "window title")
	f.IntVar(&flags.width, "width", 0, "window width in pixels")
	f.IntVar(&flags.height, "height", 0, "window height in pixels")
	f.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.Uint64Var(&flags.maxFrames, "max-frames", 0, "stop after this many frames (0 = no limit)")
	f.BoolVar(&flags.profile, "profile", false, "log frame rate and memory statistics")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	level, err := parseLevel(flags.logLevel)
	if err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	options, err := cfg.RenderThreadOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	rt := render_thread.NewRenderThread(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, func() {
		common.Logger().Debug("render thread terminated")
	}, options...)

	exited := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			common.Logger().Info("signal received, terminating")
			rt.RequestTermination()
		case <-exited:
		}
	}()

	rt.AwaitTermination()
	close(exited)

	common.Logger().Info("done", "frames", rt.Frames(), "elapsed", time.Since(started).Round(time.Millisecond))
	return rt.Err()
}

// loadConfig reads the config file, if any, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(flags.configPath); err != nil {
			return config.Config{}, err
		}
	}

	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Backend = flags.backend
	}
	if f.Changed("title") {
		cfg.Window.Title = flags.title
	}
	if f.Changed("width") {
		cfg.Window.Width = flags.width
	}
	if f.Changed("height") {
		cfg.Window.Height = flags.height
	}
	if f.Changed("max-frames") {
		cfg.MaxFrames = flags.maxFrames
	}
	if f.Changed("profile") {
		cfg.Profile.Enabled = flags.profile
	}
	return cfg, cfg.Validate()
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
