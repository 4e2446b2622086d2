package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeIsValid(t *testing.T) {
	cube := Cube()
	require.NoError(t, cube.Validate())
	assert.Len(t, cube.Vertices, 8)
	assert.Len(t, cube.Indices, 36)
}

func TestValidate(t *testing.T) {
	tri := []GPUVertex{{}, {}, {}}
	tests := []struct {
		name string
		geom Geometry
	}{
		{"no vertices", Geometry{Indices: []uint32{0, 1, 2}}},
		{"no indices", Geometry{Vertices: tri}},
		{"partial triangle", Geometry{Vertices: tri, Indices: []uint32{0, 1}}},
		{"index out of range", Geometry{Vertices: tri, Indices: []uint32{0, 1, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.geom.Validate(), ErrInvalidMesh)
		})
	}
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
positions: [[-1, -1, 0], [1, -1, 0], [0, 1, 0]]
colors: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]
indices: [0, 1, 2]
`)
	g, err := ParseYAML(doc)
	require.NoError(t, err)
	require.Len(t, g.Vertices, 3)
	assert.Equal(t, [3]float32{0, 1, 0}, g.Vertices[2].Position)
	assert.Equal(t, [3]float32{0, 0, 1}, g.Vertices[2].Color)
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
}

func TestParseYAMLDefaultsColor(t *testing.T) {
	g, err := ParseYAML([]byte("positions: [[0,0,0],[1,0,0],[0,1,0]]\nindices: [0,1,2]\n"))
	require.NoError(t, err)
	for _, v := range g.Vertices {
		assert.Equal(t, [3]float32{1, 1, 1}, v.Color)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAML([]byte("positions: [[0,0,0]]\ncolors: [[1,1,1],[0,0,0]]\nindices: [0,0,0]\n"))
	assert.ErrorIs(t, err, ErrInvalidMesh)

	_, err = ParseYAML([]byte("positions: [[0,0,0]]\nindices: [0,0,5]\n"))
	assert.ErrorIs(t, err, ErrInvalidMesh)

	_, err = ParseYAML([]byte("positions: {"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidMesh)
}

func TestMarshalVertices(t *testing.T) {
	vertices := []GPUVertex{
		{Position: [3]float32{1, 2, 3}, Color: [3]float32{0.5, 0, 0}},
		{Position: [3]float32{4, 5, 6}, Color: [3]float32{0, 0, 1}},
	}
	var v GPUVertex
	assert.Equal(t, 24, v.Size())

	buf := MarshalVertices(vertices)
	require.Len(t, buf, 48)
	assert.Equal(t, vertices[0].Marshal(), buf[:24])
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(buf[24:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[44:])))
}

func TestMarshalIndices(t *testing.T) {
	buf := MarshalIndices([]uint32{1, 258})
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 1, 0, 0}, buf)
}
