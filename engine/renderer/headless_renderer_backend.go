package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/maki-go/engine/camera"
	"github.com/Carmen-Shannon/maki-go/engine/mesh"
)

// ErrReleased is returned when a released resource is used.
var ErrReleased = errors.New("resource already released")

// headlessRendererBackend keeps every resource in memory and records draw calls.
// It lets the frame loop run without a display or GPU.
type headlessRendererBackend struct {
	clearColor [4]float64

	frameOpen  bool
	frameDraws int
	totalDraws int
	released   bool
}

var _ rendererBackend = &headlessRendererBackend{}

func newHeadlessRendererBackend() *headlessRendererBackend {
	return &headlessRendererBackend{}
}

func (b *headlessRendererBackend) BeginFrame() error {
	if b.released {
		return ErrReleased
	}
	b.frameOpen = true
	b.frameDraws = 0
	return nil
}

func (b *headlessRendererBackend) Draw(m Mesh, s Shader) error {
	hm, ok := m.(*headlessMesh)
	if !ok {
		return fmt.Errorf("mesh %q was not created by the headless backend", m.Label())
	}
	hs, ok := s.(*headlessShader)
	if !ok {
		return fmt.Errorf("shader %q was not created by the headless backend", s.Label())
	}
	if hm.released || hs.released {
		return ErrReleased
	}
	b.frameDraws++
	b.totalDraws++
	hm.draws++
	return nil
}

func (b *headlessRendererBackend) EndFrame() {
	b.frameOpen = false
}

func (b *headlessRendererBackend) PollEvents() bool {
	return !b.released
}

func (b *headlessRendererBackend) SetClearColor(c [4]float64) {
	b.clearColor = c
}

func (b *headlessRendererBackend) CreateShader(label, vertexSource, fragmentSource string) (Shader, error) {
	if b.released {
		return nil, ErrReleased
	}
	if strings.TrimSpace(vertexSource) == "" || strings.TrimSpace(fragmentSource) == "" {
		return nil, errors.New("both vertex and fragment sources must be set to create a shader")
	}
	return &headlessShader{label: label}, nil
}

func (b *headlessRendererBackend) CreateMesh(label string, g mesh.Geometry) (Mesh, error) {
	if b.released {
		return nil, ErrReleased
	}
	return &headlessMesh{
		label:        label,
		vertexBuffer: mesh.MarshalVertices(g.Vertices),
		indexBuffer:  mesh.MarshalIndices(g.Indices),
		indexCount:   len(g.Indices),
	}, nil
}

func (b *headlessRendererBackend) Release() {
	b.released = true
	b.frameOpen = false
}

// headlessShader records the last uploaded camera uniform.
type headlessShader struct {
	label    string
	uniform  []byte
	uploads  int
	released bool
}

var _ Shader = &headlessShader{}

func (s *headlessShader) Label() string {
	return s.label
}

func (s *headlessShader) SetCameraUniform(u camera.GPUCameraUniform) {
	s.uniform = u.Marshal()
	s.uploads++
}

func (s *headlessShader) Release() {
	s.released = true
}

// headlessMesh holds the serialized buffers a GPU backend would upload.
type headlessMesh struct {
	label        string
	vertexBuffer []byte
	indexBuffer  []byte
	indexCount   int
	draws        int
	released     bool
}

var _ Mesh = &headlessMesh{}

func (m *headlessMesh) Label() string {
	return m.label
}

func (m *headlessMesh) IndexCount() int {
	return m.indexCount
}

func (m *headlessMesh) Release() {
	m.released = true
}
