// Package render_thread runs a Renderer on one dedicated goroutine locked to its OS thread.
package render_thread

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/camera"
	"github.com/Carmen-Shannon/maki-go/engine/loader"
	"github.com/Carmen-Shannon/maki-go/engine/profiler"
	"github.com/Carmen-Shannon/maki-go/engine/renderer"
)

// renderThread is the implementation of the RenderThread interface.
type renderThread struct {
	title        string
	width        int
	height       int
	onTerminated func()

	state atomic.Int32

	// pending and terminate together make RequestTermination reach a renderer
	// created after the request: the control goroutine stores pending then loads
	// terminate, the worker stores terminate then loads pending.
	pending   atomic.Bool
	terminate atomic.Pointer[func()]

	frames atomic.Uint64
	done   chan struct{}
	err    error // written by the worker before done is closed

	// Worker configuration collected from builder options
	factory         RendererFactory
	backend         renderer.BackendType
	rendererOptions []renderer.RendererBuilderOption
	driverOptions   []camera.CameraDriverOption
	assets          loader.Assets
	loaderOptions   []loader.LoaderBuilderOption
	model           [16]float32
	profiling       bool
	profilerOptions []profiler.Option
}

// RenderThread owns one worker goroutine and everything it renders with.
// The Renderer, its Camera and the CameraDriver are created on the worker and
// never leave it; the control goroutine can only ask the worker to stop and wait for it.
type RenderThread interface {
	// RequestTermination asks the worker to stop after its current frame.
	// Safe to call from any goroutine, any number of times.
	RequestTermination()

	// AwaitTermination blocks until the worker has released its resources and exited.
	// Returns immediately if the worker already exited. Must not be called from the termination callback.
	AwaitTermination()

	// Close requests termination and waits for the worker. Idempotent.
	Close()

	// State returns the current lifecycle state.
	State() State

	// Err returns the error that ended the worker early (renderer creation, setup or a
	// recovered panic). Returns nil while the worker is running or when it exited cleanly.
	Err() error

	// Frames returns the number of frames the worker has completed.
	Frames() uint64
}

var _ RenderThread = &renderThread{}

// NewRenderThread spawns the worker goroutine and returns immediately.
// The worker creates the renderer and camera driver, runs setup once, renders frames until
// the renderer reports termination, releases mesh, shader, driver and renderer in that
// order, then calls onTerminated.
//
// Parameters:
//   - title: the window title
//   - width: the initial viewport width in pixels
//   - height: the initial viewport height in pixels
//   - onTerminated: called on the worker goroutine once everything is released; may be nil
//   - options: variadic list of RenderThreadBuilderOption functions
//
// Returns:
//   - RenderThread: the running render thread
func NewRenderThread(title string, width, height int, onTerminated func(), options ...RenderThreadBuilderOption) RenderThread {
	t := &renderThread{
		title:        title,
		width:        width,
		height:       height,
		onTerminated: onTerminated,
		done:         make(chan struct{}),
		backend:      renderer.BackendTypeWGPU,
		model:        common.IdentityMatrix(),
	}
	for _, option := range options {
		option(t)
	}
	if t.factory == nil {
		t.factory = t.defaultFactory
	}

	t.state.Store(int32(StateRunning))
	go t.run()
	return t
}

func (t *renderThread) RequestTermination() {
	t.pending.Store(true)
	if fn := t.terminate.Load(); fn != nil {
		(*fn)()
	}
	t.state.CompareAndSwap(int32(StateRunning), int32(StateTerminationRequested))
}

func (t *renderThread) AwaitTermination() {
	if t.State() == StateNotStarted {
		return
	}
	<-t.done
	if !t.state.CompareAndSwap(int32(StateRunning), int32(StateJoined)) {
		t.state.CompareAndSwap(int32(StateTerminationRequested), int32(StateJoined))
	}
}

func (t *renderThread) Close() {
	t.RequestTermination()
	t.AwaitTermination()
}

func (t *renderThread) State() State {
	return State(t.state.Load())
}

func (t *renderThread) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

func (t *renderThread) Frames() uint64 {
	return t.frames.Load()
}

// --- worker goroutine ---

// run is the worker body. Window and GPU calls must stay on one OS thread.
func (t *renderThread) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	if err := t.work(); err != nil {
		common.Logger().Error("render thread stopped", "err", err)
		t.err = err
	}
	common.Logger().Info("render thread exited", "frames", t.Frames())

	if t.onTerminated != nil {
		t.onTerminated()
	}
}

// work owns the renderer for its whole lifetime; deferred releases run in reverse creation order.
func (t *renderThread) work() error {
	r, err := t.factory(t.title, t.width, t.height)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	terminate := r.Terminate
	t.terminate.Store(&terminate)
	if t.pending.Load() {
		r.Terminate()
	}

	driver := camera.NewCameraDriver(r.Camera(), r.Keyboard(), t.driverOptions...)

	res, err := t.setup(r)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	defer res.release()

	var prof *profiler.Profiler
	if t.profiling {
		prof = profiler.NewProfiler(t.profilerOptions...)
	}
	return t.loop(r, driver, res, prof)
}

// frameResources are the persistent GPU objects created by setup.
type frameResources struct {
	shader renderer.Shader
	mesh   renderer.Mesh
}

// release frees the mesh before the shader.
func (f *frameResources) release() {
	if f.mesh != nil {
		f.mesh.Release()
	}
	if f.shader != nil {
		f.shader.Release()
	}
}

// setup loads the configured assets and uploads them. Partially created resources are released on error.
func (t *renderThread) setup(r renderer.Renderer) (*frameResources, error) {
	l := loader.NewLoader(t.loaderOptions...)
	bundle, err := l.Load(t.assets)
	l.Close()
	if err != nil {
		return nil, err
	}

	res := &frameResources{}
	if res.shader, err = r.CreateShader("simple", bundle.VertexSource, bundle.FragmentSource); err != nil {
		return nil, err
	}
	if res.mesh, err = r.CreateMesh("cube", bundle.Geometry); err != nil {
		res.release()
		return nil, err
	}
	common.Logger().Debug("render thread setup complete",
		"vertices", len(bundle.Geometry.Vertices), "indices", res.mesh.IndexCount(), "bindings", len(bundle.Bindings))
	return res, nil
}

// loop renders at least one frame and keeps going until the renderer asks to stop.
// A panic inside a frame ends the loop with an error instead of crashing the process.
func (t *renderThread) loop(r renderer.Renderer, driver camera.CameraDriver, res *frameResources, prof *profiler.Profiler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render loop recovered from panic: %v", rec)
		}
	}()

	for {
		t.renderFrame(r, driver, res)
		if prof != nil {
			prof.Tick()
		}
		if r.ShouldTerminate() {
			return nil
		}
	}
}

func (t *renderThread) renderFrame(r renderer.Renderer, driver camera.CameraDriver, res *frameResources) {
	driver.Update(r.LastFrameTime())

	if err := r.StartFrame(); err != nil {
		// EndFrame still pumps window events so a close request is not missed.
		common.Logger().Warn("frame skipped", "err", err)
		r.EndFrame()
		t.frames.Add(1)
		return
	}

	cam := r.Camera()
	vp := cam.ViewProjection()
	uniform := camera.GPUCameraUniform{CameraPosition: cam.Position()}
	common.Mul4(uniform.MVP[:], vp[:], t.model[:])
	res.shader.SetCameraUniform(uniform)

	if err := r.Draw(res.mesh, res.shader); err != nil {
		common.Logger().Warn("draw failed", "err", err)
	}
	r.EndFrame()
	t.frames.Add(1)
}

func (t *renderThread) defaultFactory(title string, width, height int) (renderer.Renderer, error) {
	options := append([]renderer.RendererBuilderOption{
		renderer.WithTitle(title),
		renderer.WithSize(width, height),
	}, t.rendererOptions...)
	return renderer.NewRenderer(t.backend, options...)
}
