package renderer

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/camera"
	"github.com/Carmen-Shannon/maki-go/engine/input"
	"github.com/Carmen-Shannon/maki-go/engine/mesh"
)

// ErrUnknownBackend is returned when a BackendType or backend name is not recognised.
var ErrUnknownBackend = errors.New("unknown renderer backend")

// ErrNoFrame is returned by Draw when no frame is in progress.
var ErrNoFrame = errors.New("no frame in progress")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType BackendType
	backend     rendererBackend

	camera   camera.Camera
	keyboard *input.Keyboard

	shouldTerminate atomic.Bool

	// Frame timing, touched only by the render goroutine.
	clock         func() time.Time
	lastFrameEnd  time.Time
	lastFrameTime float32
	frames        uint64
	maxFrames     uint64
	inFrame       bool

	// Pre-creation config collected from builder options
	title                string
	width                int
	height               int
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           [4]float64
	cameraOptions        []camera.CameraBuilderOption
}

// Renderer is the capability the render thread drives each frame: it owns the
// window (if any), the GPU device, the Camera and the keyboard state.
//
// Every method except Terminate and ShouldTerminate must be called from the
// goroutine that created the Renderer.
type Renderer interface {
	// ShouldTerminate reports whether the frame loop should stop after the current frame.
	// Safe to call from any goroutine.
	ShouldTerminate() bool

	// Terminate asks the frame loop to stop. Safe to call from any goroutine, any number of times.
	Terminate()

	// LastFrameTime returns the wall time between the ends of the two most recent frames, in seconds.
	// Returns 0 until two frames have completed.
	LastFrameTime() float32

	// Frames returns the number of completed frames.
	Frames() uint64

	// StartFrame acquires the render target and opens the frame.
	//
	// Returns:
	//   - error: error if the render target could not be acquired; the frame may be skipped
	StartFrame() error

	// EndFrame submits and presents the frame (if one was started), pumps window events
	// and updates frame timing.
	EndFrame()

	// Draw encodes one draw of m with s into the current frame.
	//
	// Parameters:
	//   - m: the mesh to draw
	//   - s: the shader to draw with
	//
	// Returns:
	//   - error: ErrNoFrame outside StartFrame/EndFrame, or a backend error
	Draw(m Mesh, s Shader) error

	// SetClearColor sets the color the frame is cleared to.
	//
	// Parameters:
	//   - rgba: red, green, blue, alpha in [0, 1]
	SetClearColor(rgba [4]float64)

	// Camera returns the camera owned by this renderer.
	Camera() camera.Camera

	// Keyboard returns the key state fed by the window.
	Keyboard() input.KeyState

	// CreateShader compiles a vertex and fragment WGSL program.
	//
	// Parameters:
	//   - label: debug name
	//   - vertexSource: WGSL with a vs_main entry point
	//   - fragmentSource: WGSL with an fs_main entry point
	//
	// Returns:
	//   - Shader: the compiled shader
	//   - error: error if compilation fails
	CreateShader(label, vertexSource, fragmentSource string) (Shader, error)

	// CreateMesh uploads validated geometry.
	//
	// Parameters:
	//   - label: debug name
	//   - g: the geometry to upload
	//
	// Returns:
	//   - Mesh: the uploaded mesh
	//   - error: error if g is invalid or upload fails
	CreateMesh(label string, g mesh.Geometry) (Mesh, error)

	// Release frees the window and GPU device. Shaders and meshes must be released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend.
// For BackendTypeWGPU the calling goroutine must be locked to its OS thread
// and must be the only goroutine that uses the Renderer.
//
// Parameters:
//   - backendType: the rendering backend to use
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: ErrUnknownBackend or a backend initialisation error
func NewRenderer(backendType BackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		keyboard:    input.NewKeyboard(),
		clock:       time.Now,
		title:       "maki",
		width:       1280,
		height:      720,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
		clearColor:  [4]float64{0.1, 0.1, 0.1, 1.0},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	r.camera = camera.NewCamera(uint32(max(r.width, 1)), uint32(max(r.height, 1)), camera.CameraTypePerspective, r.cameraOptions...)

	switch backendType {
	case BackendTypeNone:
		r.backend = newHeadlessRendererBackend()
	case BackendTypeWGPU:
		b, err := newWGPURendererBackend(r)
		if err != nil {
			return nil, fmt.Errorf("wgpu backend: %w", err)
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, backendType)
	}
	r.backend.SetClearColor(r.clearColor)

	common.Logger().Info("renderer created", "backend", backendType.String(), "width", r.width, "height", r.height)
	return r, nil
}

func (r *renderer) ShouldTerminate() bool {
	return r.shouldTerminate.Load()
}

func (r *renderer) Terminate() {
	r.shouldTerminate.Store(true)
}

func (r *renderer) LastFrameTime() float32 {
	return r.lastFrameTime
}

func (r *renderer) Frames() uint64 {
	return r.frames
}

func (r *renderer) StartFrame() error {
	if r.inFrame {
		return fmt.Errorf("frame %d already started", r.frames)
	}
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.inFrame = true
	return nil
}

func (r *renderer) EndFrame() {
	if r.inFrame {
		r.backend.EndFrame()
		r.inFrame = false
	}

	if !r.backend.PollEvents() {
		r.Terminate()
	}

	now := r.clock()
	if !r.lastFrameEnd.IsZero() {
		r.lastFrameTime = float32(now.Sub(r.lastFrameEnd).Seconds())
	}
	r.lastFrameEnd = now

	r.frames++
	if r.maxFrames > 0 && r.frames >= r.maxFrames {
		r.Terminate()
	}
}

func (r *renderer) Draw(m Mesh, s Shader) error {
	if !r.inFrame {
		return ErrNoFrame
	}
	if m == nil || s == nil {
		return errors.New("draw requires a mesh and a shader")
	}
	return r.backend.Draw(m, s)
}

func (r *renderer) SetClearColor(rgba [4]float64) {
	r.clearColor = rgba
	r.backend.SetClearColor(rgba)
}

func (r *renderer) Camera() camera.Camera {
	return r.camera
}

func (r *renderer) Keyboard() input.KeyState {
	return r.keyboard
}

func (r *renderer) CreateShader(label, vertexSource, fragmentSource string) (Shader, error) {
	s, err := r.backend.CreateShader(label, vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("create shader %q: %w", label, err)
	}
	return s, nil
}

func (r *renderer) CreateMesh(label string, g mesh.Geometry) (Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("create mesh %q: %w", label, err)
	}
	m, err := r.backend.CreateMesh(label, g)
	if err != nil {
		return nil, fmt.Errorf("create mesh %q: %w", label, err)
	}
	return m, nil
}

func (r *renderer) Release() {
	r.backend.Release()
	r.keyboard.Reset()
}

// --- window event hooks, called by backends on the render goroutine ---

func (r *renderer) onResize(width, height int) {
	r.width, r.height = width, height
	r.camera.SetWindowSize(uint32(max(width, 1)), uint32(max(height, 1)))
}

func (r *renderer) onKeyDown(key uint32) {
	r.keyboard.Press(key)
}

func (r *renderer) onKeyUp(key uint32) {
	r.keyboard.Release(key)
}

func (r *renderer) onFocus(focused bool) {
	if !focused {
		r.keyboard.Reset()
	}
}
