package shader

import (
	"testing"

	"github.com/Carmen-Shannon/maki-go/engine/camera"
	"github.com/Carmen-Shannon/maki-go/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExpandsAnnotations(t *testing.T) {
	src := "//@maki:include camera\n//@maki:group 0 0 storage_uniform cam camera\n  // @maki:include vertex\nfn f() {}"

	p := NewPreProcessor()
	out, err := p.Process(src)
	require.NoError(t, err)

	want := camera.GPUCameraUniformSource + "\n" +
		"@group(0) @binding(0) var<uniform> cam: CameraUniform;\n" +
		mesh.GPUVertexSource + "\n" +
		"fn f() {}"
	assert.Equal(t, want, out)

	decls := p.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, AnnotationTypeBindingGroup, decls[0].Type)
	assert.Equal(t, 0, *decls[0].Group)
	assert.Equal(t, 0, *decls[0].Binding)
	assert.Equal(t, AnnotationArgCamera, decls[0].Args[2])
	assert.Equal(t, 2, decls[0].Line)
}

func TestProcessWithoutAnnotationsIsIdentity(t *testing.T) {
	src := "@vertex\nfn vs_main() -> @builtin(position) vec4<f32> {\n    return vec4<f32>(0.0); // @maki: is only read from comment lines\n}"
	out, err := NewPreProcessor().Process(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestDeclarationsResetBetweenCalls(t *testing.T) {
	p := NewPreProcessor()
	_, err := p.Process("//@maki:group 1 2 storage_read data vertex")
	require.NoError(t, err)
	require.Len(t, p.Declarations(), 1)

	_, err = p.Process("fn f() {}")
	require.NoError(t, err)
	assert.Empty(t, p.Declarations())
}

func TestProcessErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "//@maki:",
		"unknown type":   "//@maki:bind camera",
		"include args":   "//@maki:include",
		"include struct": "//@maki:include light",
		"group args":     "//@maki:group 0 0 storage_uniform camera",
		"group number":   "//@maki:group x 0 storage_uniform cam camera",
		"binding number": "//@maki:group 0 -1 storage_uniform cam camera",
		"address space":  "//@maki:group 0 0 push_constant cam camera",
		"group struct":   "//@maki:group 0 0 storage_uniform cam light",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewPreProcessor().Process("fn f() {}\n" + src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}
