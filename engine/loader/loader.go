package loader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/mesh"
	"github.com/Carmen-Shannon/maki-go/engine/renderer/shader"
)

// ErrEmptySource is returned when a shader file contains no code.
var ErrEmptySource = errors.New("empty shader source")

// DefaultVertexShader is the built-in vertex stage used when no vertex shader path is configured.
// It transforms positions by the camera uniform's mvp and forwards vertex colors.
//
//go:embed assets/simple_vertex.wgsl
var DefaultVertexShader string

// DefaultFragmentShader is the built-in fragment stage; it outputs the interpolated vertex color.
//
//go:embed assets/simple_fragment.wgsl
var DefaultFragmentShader string

// Assets names the files the render thread's setup step needs.
// An empty path selects the built-in default for that asset.
type Assets struct {
	VertexShader   string `yaml:"vertex_shader" toml:"vertex_shader"`
	FragmentShader string `yaml:"fragment_shader" toml:"fragment_shader"`
	Mesh           string `yaml:"mesh" toml:"mesh"`
}

// Bundle is the loaded content of an Assets set.
// Shader sources are already expanded by the WGSL pre-processor.
type Bundle struct {
	VertexSource   string
	FragmentSource string
	Geometry       mesh.Geometry

	// Bindings lists the bind group declarations of both stages, vertex first.
	Bindings []shader.Annotation
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	readFile func(path string) ([]byte, error)
	workers  int
	pool     worker.DynamicWorkerPool

	closeOnce sync.Once

	shaderCache map[string]string
	meshCache   map[string]mesh.Geometry
}

// Loader reads shader sources and mesh documents from disk and caches them by path.
// A Loader is safe for concurrent use.
type Loader interface {
	// LoadShaderSource reads a WGSL source file.
	// An empty path returns an empty string and ErrEmptySource; use Load for defaults.
	//
	// Parameters:
	//   - path: the file path of the shader
	//
	// Returns:
	//   - string: the shader source
	//   - error: error if the file cannot be read or holds no code
	LoadShaderSource(path string) (string, error)

	// LoadMesh reads a mesh document. The backend is selected by file extension.
	//
	// Parameters:
	//   - path: the file path of the mesh
	//
	// Returns:
	//   - mesh.Geometry: the decoded geometry
	//   - error: error if the file cannot be read, has an unknown extension, or is invalid
	LoadMesh(path string) (mesh.Geometry, error)

	// Load reads every asset of a set in parallel on the loader's worker pool.
	// Empty paths resolve to DefaultVertexShader, DefaultFragmentShader and mesh.Cube.
	//
	// Parameters:
	//   - assets: the asset paths to load
	//
	// Returns:
	//   - Bundle: the loaded sources and geometry
	//   - error: every load failure, joined
	Load(assets Assets) (Bundle, error)

	// Cached reports whether path is present in either cache.
	//
	// Parameters:
	//   - path: the file path to look up
	//
	// Returns:
	//   - bool: true if a previous load stored path
	Cached(path string) bool

	// Close stops the loader's worker pool. Cached assets stay readable,
	// but Load must not be called afterwards.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader reading from the local file system.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		readFile:    os.ReadFile,
		workers:     3,
		shaderCache: make(map[string]string),
		meshCache:   make(map[string]mesh.Geometry),
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(max(l.workers, 1), 16, 1*time.Second)
	return l
}

func (l *loader) LoadShaderSource(path string) (string, error) {
	l.mu.RLock()
	if cached, ok := l.shaderCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if path == "" {
		return "", ErrEmptySource
	}
	data, err := l.readFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read shader %s: %w", path, err)
	}
	src := string(data)
	if strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("shader %s: %w", path, ErrEmptySource)
	}

	l.mu.Lock()
	l.shaderCache[path] = src
	l.mu.Unlock()

	common.Logger().Debug("loaded shader source", "path", path, "bytes", len(src))
	return src, nil
}

func (l *loader) LoadMesh(path string) (mesh.Geometry, error) {
	l.mu.RLock()
	if cached, ok := l.meshCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return mesh.Geometry{}, err
	}
	data, err := l.readFile(path)
	if err != nil {
		return mesh.Geometry{}, fmt.Errorf("failed to read mesh %s: %w", path, err)
	}
	g, err := backend.Decode(data)
	if err != nil {
		return mesh.Geometry{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.meshCache[path] = g
	l.mu.Unlock()

	common.Logger().Debug("loaded mesh", "path", path, "vertices", len(g.Vertices), "indices", len(g.Indices))
	return g, nil
}

func (l *loader) Load(assets Assets) (Bundle, error) {
	var (
		b        Bundle
		wg       sync.WaitGroup
		errs     [3]error
		bindings [2][]shader.Annotation
	)

	// Each task writes only its own Bundle field and error slot.
	tasks := []func() error{
		func() (err error) {
			b.VertexSource, bindings[0], err = l.shaderOrDefault(assets.VertexShader, DefaultVertexShader)
			return err
		},
		func() (err error) {
			b.FragmentSource, bindings[1], err = l.shaderOrDefault(assets.FragmentShader, DefaultFragmentShader)
			return err
		},
		func() (err error) {
			if assets.Mesh == "" {
				b.Geometry = mesh.Cube()
				return nil
			}
			b.Geometry, err = l.LoadMesh(assets.Mesh)
			return err
		},
	}

	for i, task := range tasks {
		wg.Add(1)
		id, do := i, task
		l.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				errs[id] = do()
				return nil, errs[id]
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return Bundle{}, err
	}
	b.Bindings = append(bindings[0], bindings[1]...)
	return b, nil
}

func (l *loader) Cached(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, shader := l.shaderCache[path]
	_, geometry := l.meshCache[path]
	return shader || geometry
}

func (l *loader) Close() {
	l.closeOnce.Do(l.pool.Stop)
}

// --- internal helpers ---

// shaderOrDefault loads path (or takes fallback when path is empty) and expands its annotations.
func (l *loader) shaderOrDefault(path, fallback string) (string, []shader.Annotation, error) {
	src := fallback
	if path != "" {
		var err error
		if src, err = l.LoadShaderSource(path); err != nil {
			return "", nil, err
		}
	}

	pp := shader.NewPreProcessor()
	out, err := pp.Process(src)
	if err != nil {
		return "", nil, fmt.Errorf("pre-process shader %s: %w", common.Coalesce(path, "<default>"), err)
	}
	return out, pp.Declarations(), nil
}

// resolveBackend selects the mesh backend for a file extension.
func (l *loader) resolveBackend(path string) (meshBackend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlMeshBackend{}, nil
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", filepath.Ext(path))
	}
}
