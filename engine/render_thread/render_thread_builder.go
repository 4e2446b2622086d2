package render_thread

import (
	"time"

	"github.com/Carmen-Shannon/maki-go/engine/camera"
	"github.com/Carmen-Shannon/maki-go/engine/loader"
	"github.com/Carmen-Shannon/maki-go/engine/profiler"
	"github.com/Carmen-Shannon/maki-go/engine/renderer"
)

// RendererFactory builds the Renderer on the worker goroutine.
//
// Parameters:
//   - title: the window title
//   - width: the initial viewport width in pixels
//   - height: the initial viewport height in pixels
//
// Returns:
//   - renderer.Renderer: the renderer the worker will own
//   - error: error if the renderer cannot be created
type RendererFactory func(title string, width, height int) (renderer.Renderer, error)

// RenderThreadBuilderOption is a functional option applied to a render thread during construction via NewRenderThread.
type RenderThreadBuilderOption func(*renderThread)

// WithRendererFactory replaces how the worker builds its Renderer.
// When set, WithBackend and WithRendererOptions are ignored.
//
// Parameters:
//   - factory: the constructor called on the worker goroutine
//
// Returns:
//   - RenderThreadBuilderOption: a function that applies the factory to a render thread
func WithRendererFactory(factory RendererFactory) RenderThreadBuilderOption {
	return func(t *renderThread) {
		t.factory = factory
	}
}

// WithBackend selects the backend of the default renderer factory. Defaults to renderer.BackendTypeWGPU.
//
// Parameters:
//   - backend: the backend type
//
// Returns:
//   - RenderThreadBuilderOption: a function that applies the backend to a render thread
func WithBackend(backend renderer.BackendType) RenderThreadBuilderOption {
	return func(t *renderThread) {
		t.backend = backend
	}
}

// WithRendererOptions forwards options to the default renderer factory.
// The title and size passed to NewRenderThread are applied first.
func WithRendererOptions(options ...renderer.RendererBuilderOption) RenderThreadBuilderOption {
	return func(t *renderThread) {
		t.rendererOptions = append(t.rendererOptions, options...)
	}
}

// WithCameraDriverOptions forwards options to the camera driver built on the worker.
func WithCameraDriverOptions(options ...camera.CameraDriverOption) RenderThreadBuilderOption {
	return func(t *renderThread) {
		t.driverOptions = append(t.driverOptions, options...)
	}
}

// WithAssets sets the shader and mesh files loaded by setup.
// Empty paths select the built-in shaders and cube.
//
// Parameters:
//   - assets: the asset paths
//   - options: options for the loader that reads them
//
// Returns:
//   - RenderThreadBuilderOption: a function that applies the assets to a render thread
func WithAssets(assets loader.Assets, options ...loader.LoaderBuilderOption) RenderThreadBuilderOption {
	return func(t *renderThread) {
		t.assets = assets
		t.loaderOptions = options
	}
}

// WithModelTransform sets the model matrix (column-major) multiplied into the mvp each frame.
// Defaults to identity.
func WithModelTransform(model [16]float32) RenderThreadBuilderOption {
	return func(t *renderThread) {
		t.model = model
	}
}

// WithProfiling ticks a profiler once per frame, reporting at the given interval.
// A non-positive interval uses the profiler's default.
//
// Parameters:
//   - interval: how often stats are logged
//
// Returns:
//   - RenderThreadBuilderOption: a function that enables profiling on a render thread
func WithProfiling(interval time.Duration) RenderThreadBuilderOption {
	return func(t *renderThread) {
		var options []profiler.Option
		if interval > 0 {
			options = append(options, profiler.WithInterval(interval))
		}
		t.profilerOptions = options
		t.profiling = true
	}
}
