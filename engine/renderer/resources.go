package renderer

import "github.com/Carmen-Shannon/maki-go/engine/camera"

// Shader is a compiled vertex + fragment program with its camera uniform binding.
// A Shader belongs to the Renderer that created it and must be released before it.
type Shader interface {
	// Label returns the debug name given at creation.
	Label() string

	// SetCameraUniform uploads the camera uniform used by the next draws.
	//
	// Parameters:
	//   - u: the uniform contents (mvp and camera position)
	SetCameraUniform(u camera.GPUCameraUniform)

	// Release frees the GPU program. Safe to call more than once.
	Release()
}

// Mesh is an indexed triangle list uploaded to the GPU.
// A Mesh belongs to the Renderer that created it and must be released before it.
type Mesh interface {
	// Label returns the debug name given at creation.
	Label() string

	// IndexCount returns the number of indices drawn per draw call.
	IndexCount() int

	// Release frees the vertex and index buffers. Safe to call more than once.
	Release()
}
