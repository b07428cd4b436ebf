package asset

import "io/fs"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS reads material files from fsys instead of the working directory.
//
// Parameters:
//   - fsys: the file system to read from
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.backends[".wgsl"] = newWGSLLoaderBackend(fsys)
	}
}

// WithWorkers sets the number of background load workers.
//
// Parameters:
//   - n: worker count, minimum 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithMaterial pre-populates the cache with a ready material.
//
// Parameters:
//   - m: the material; its Name is the cache key
//
// Returns:
//   - LoaderBuilderOption: a function that registers the material
func WithMaterial(m *Material) LoaderBuilderOption {
	return func(l *loader) {
		if m != nil && m.Name != "" {
			l.entries[m.Name] = &entry{status: StatusReady, material: m}
		}
	}
}
