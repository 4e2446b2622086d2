package renderer

import (
	"time"

	"github.com/Carmen-Shannon/maki-go/engine/camera"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithTitle sets the window title. Ignored by the headless backend.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - RendererBuilderOption: a function that applies the title option to a renderer
func WithTitle(title string) RendererBuilderOption {
	return func(r *renderer) {
		r.title = title
	}
}

// WithSize sets the initial viewport size; the camera's aspect ratio follows it.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width = width
		r.height = height
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the initial clear color.
func WithClearColor(rgba [4]float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = rgba
	}
}

// WithCameraOptions forwards options to the camera the renderer creates.
//
// Parameters:
//   - options: camera builder options (type, fov, position, rotation)
//
// Returns:
//   - RendererBuilderOption: a function that applies the camera options to a renderer
func WithCameraOptions(options ...camera.CameraBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.cameraOptions = append(r.cameraOptions, options...)
	}
}

// WithMaxFrames makes the renderer request termination after n completed frames.
// Zero means no limit.
//
// Parameters:
//   - n: the frame limit
//
// Returns:
//   - RendererBuilderOption: a function that applies the frame limit to a renderer
func WithMaxFrames(n uint64) RendererBuilderOption {
	return func(r *renderer) {
		r.maxFrames = n
	}
}

// WithClock replaces the time source used for frame timing.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - RendererBuilderOption: a function that applies the clock to a renderer
func WithClock(clock func() time.Time) RendererBuilderOption {
	return func(r *renderer) {
		r.clock = clock
	}
}
