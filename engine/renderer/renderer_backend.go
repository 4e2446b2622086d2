package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/maki-go/engine/mesh"
)

// BackendType identifies the GPU backend implementation used by the Renderer.
type BackendType int

const (
	// BackendTypeNone selects the headless backend: no window, no GPU, resources kept in memory.
	BackendTypeNone BackendType = iota

	// BackendTypeWGPU selects the WebGPU-based rendering backend with a GLFW window.
	BackendTypeWGPU
)

func (t BackendType) String() string {
	switch t {
	case BackendTypeNone:
		return "none"
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return fmt.Sprintf("BackendType(%d)", int(t))
	}
}

// ParseBackendType converts a configuration string into a BackendType.
//
// Parameters:
//   - s: "none" (or "headless") or "wgpu"
//
// Returns:
//   - BackendType: the parsed backend
//   - error: an error wrapping ErrUnknownBackend if s names no known backend
func ParseBackendType(s string) (BackendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "headless":
		return BackendTypeNone, nil
	case "wgpu", "webgpu":
		return BackendTypeWGPU, nil
	}
	return BackendTypeNone, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// rendererBackend is implemented once per GPU API. The renderer front end owns
// frame timing and the terminate flag; a backend only records and submits work.
type rendererBackend interface {
	// BeginFrame acquires the next render target and opens the main render pass.
	BeginFrame() error

	// Draw encodes one indexed draw of m with s into the open pass.
	Draw(m Mesh, s Shader) error

	// EndFrame closes the pass, submits it and presents. No-op without an open frame.
	EndFrame()

	// PollEvents pumps platform events. Returns false once the window was closed.
	PollEvents() bool

	// SetClearColor sets the color the render target is cleared to each frame.
	SetClearColor(c [4]float64)

	CreateShader(label, vertexSource, fragmentSource string) (Shader, error)
	CreateMesh(label string, g mesh.Geometry) (Mesh, error)

	// Release frees every backend resource. Safe to call more than once.
	Release()
}
