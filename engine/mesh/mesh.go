// Package mesh holds CPU-side triangle geometry: the vertex layout shared with
// the shaders, the built-in example cube and the YAML mesh document format.
package mesh

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidMesh is returned when geometry cannot be drawn as an indexed triangle list.
var ErrInvalidMesh = errors.New("invalid mesh")

// Geometry is an indexed triangle list ready to be uploaded by a renderer.
type Geometry struct {
	Vertices []GPUVertex
	Indices  []uint32
}

// Validate checks that the geometry forms whole triangles and that every index
// refers to an existing vertex.
//
// Returns:
//   - error: an error wrapping ErrInvalidMesh, or nil
func (g Geometry) Validate() error {
	if len(g.Vertices) == 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidMesh)
	}
	if len(g.Indices) == 0 || len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a positive multiple of 3", ErrInvalidMesh, len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			return fmt.Errorf("%w: index %d at position %d out of range (%d vertices)", ErrInvalidMesh, idx, i, len(g.Vertices))
		}
	}
	return nil
}

// document is the on-disk YAML layout of a mesh.
type document struct {
	Positions [][3]float32 `yaml:"positions"`
	Colors    [][3]float32 `yaml:"colors"`
	Indices   []uint32     `yaml:"indices"`
}

// ParseYAML decodes a mesh document. Colors are optional; missing colors
// default to white.
//
// Example:
//
//	positions: [[-1, -1, 0], [1, -1, 0], [0, 1, 0]]
//	colors:    [[1, 0, 0], [0, 1, 0], [0, 0, 1]]
//	indices:   [0, 1, 2]
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Geometry: the decoded, validated geometry
//   - error: a decode error or an error wrapping ErrInvalidMesh
func ParseYAML(data []byte) (Geometry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Geometry{}, fmt.Errorf("mesh: decode: %w", err)
	}
	if len(doc.Colors) != 0 && len(doc.Colors) != len(doc.Positions) {
		return Geometry{}, fmt.Errorf("%w: %d colors for %d positions", ErrInvalidMesh, len(doc.Colors), len(doc.Positions))
	}

	g := Geometry{
		Vertices: make([]GPUVertex, len(doc.Positions)),
		Indices:  doc.Indices,
	}
	for i, p := range doc.Positions {
		g.Vertices[i].Position = p
		g.Vertices[i].Color = [3]float32{1, 1, 1}
		if len(doc.Colors) != 0 {
			g.Vertices[i].Color = doc.Colors[i]
		}
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Cube returns the built-in example cube: 8 colored corners of a 2x2x2 cube
// centered at the origin, 12 triangles.
func Cube() Geometry {
	positions := [8][3]float32{
		{-1, -1, +1}, // 0 bottom front left
		{+1, -1, +1}, // 1 bottom front right
		{-1, -1, -1}, // 2 bottom back  left
		{+1, -1, -1}, // 3 bottom back  right
		{-1, +1, +1}, // 4 top    front left
		{+1, +1, +1}, // 5 top    front right
		{-1, +1, -1}, // 6 top    back  left
		{+1, +1, -1}, // 7 top    back  right
	}
	colors := [8][3]float32{
		{0.6, 0.6, 0.0},
		{0.0, 0.0, 0.6},
		{0.0, 0.6, 0.0},
		{0.6, 0.0, 0.0},
		{0.0, 0.6, 0.0},
		{0.6, 0.0, 0.6},
		{0.6, 0.6, 0.0},
		{1.0, 1.0, 1.0},
	}

	g := Geometry{
		Vertices: make([]GPUVertex, len(positions)),
		Indices: []uint32{
			2, 3, 0, 0, 3, 1, // bottom
			0, 1, 5, 5, 4, 0, // front
			2, 0, 4, 4, 6, 2, // left
			1, 3, 7, 7, 5, 1, // right
			3, 2, 6, 6, 7, 3, // back
			7, 6, 4, 4, 5, 7, // top
		},
	}
	for i := range positions {
		g.Vertices[i] = GPUVertex{Position: positions[i], Color: colors[i]}
	}
	return g
}
