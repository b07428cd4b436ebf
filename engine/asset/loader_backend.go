package asset

import (
	"bytes"
	"fmt"
	"io/fs"
)

// loaderBackend reads and parses one material source format.
type loaderBackend interface {
	// Load reads the file at path and builds the material.
	//
	// Parameters:
	//   - name: the cache key
	//   - path: the file path within the backend's file system
	//
	// Returns:
	//   - *Material: the parsed material
	//   - error: error if reading or parsing fails
	Load(name, path string) (*Material, error)
}

// wgslLoaderBackend loads WGSL shader files as single-technique materials.
type wgslLoaderBackend struct {
	fsys fs.FS
}

var _ loaderBackend = &wgslLoaderBackend{}

func newWGSLLoaderBackend(fsys fs.FS) *wgslLoaderBackend {
	return &wgslLoaderBackend{fsys: fsys}
}

func (b *wgslLoaderBackend) Load(name, path string) (*Material, error) {
	src, err := fs.ReadFile(b.fsys, path)
	if err != nil {
		return nil, err
	}
	return parseWGSL(name, path, src)
}

// parseWGSL counts the entry points of a WGSL module. A material needs at
// least one fragment or compute entry point.
func parseWGSL(name, path string, src []byte) (*Material, error) {
	m := &Material{
		Name:           name,
		Path:           path,
		Source:         src,
		Passes:         bytes.Count(src, []byte("@fragment")),
		ComputeEntries: bytes.Count(src, []byte("@compute")),
	}
	if m.Passes == 0 && m.ComputeEntries == 0 {
		return nil, fmt.Errorf("%s: no @fragment or @compute entry point", path)
	}
	return m, nil
}
