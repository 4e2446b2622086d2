package loader

import "github.com/Carmen-Shannon/maki-go/engine/mesh"

// meshBackend decodes one mesh file format into geometry.
type meshBackend interface {
	// Decode parses a whole mesh file.
	//
	// Parameters:
	//   - data: the file contents
	//
	// Returns:
	//   - mesh.Geometry: the decoded geometry
	//   - error: error if the data is malformed or the mesh is invalid
	Decode(data []byte) (mesh.Geometry, error)
}

// yamlMeshBackend reads the positions/colors/indices YAML document.
type yamlMeshBackend struct{}

var _ meshBackend = yamlMeshBackend{}

func (yamlMeshBackend) Decode(data []byte) (mesh.Geometry, error) {
	return mesh.ParseYAML(data)
}
