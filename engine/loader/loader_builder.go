package loader

import "io/fs"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS makes the Loader read every path from fsys instead of the local file system.
//
// Parameters:
//   - fsys: the file system to read from
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.readFile = func(path string) ([]byte, error) {
			return fs.ReadFile(fsys, path)
		}
	}
}

// WithWorkers sets the maximum number of assets read concurrently by Load.
//
// Parameters:
//   - n: the worker count (values below 1 are raised to 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithShaderSource pre-populates the shader cache.
//
// Parameters:
//   - path: the cache key
//   - src: the shader source
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cached source to a loader
func WithShaderSource(path, src string) LoaderBuilderOption {
	return func(l *loader) {
		l.shaderCache[path] = src
	}
}
