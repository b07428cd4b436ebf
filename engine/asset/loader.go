package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-framegraph/common"
)

// ErrUnsupportedFormat is returned for file extensions no backend handles.
var ErrUnsupportedFormat = errors.New("asset: unsupported format")

// entry is the cache slot of one material name.
type entry struct {
	status   Status
	material *Material
	err      error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	entries map[string]*entry

	backends map[string]loaderBackend
	pool     worker.DynamicWorkerPool
	workers  int
	pending  sync.WaitGroup
	nextTask int
}

// Loader loads materials in the background and serves non-blocking lookups.
// It is the only part of the engine touched from more than one goroutine.
type Loader interface {
	// Load schedules a background load of path under name. Loading a name that
	// is already pending or ready is a no-op; a failed name is retried.
	//
	// Parameters:
	//   - name: the cache key
	//   - path: the file path, resolved by extension to a backend
	//
	// Returns:
	//   - error: ErrUnsupportedFormat if no backend handles the extension
	Load(name, path string) error

	// Register publishes an already built material as ready.
	//
	// Parameters:
	//   - m: the material; its Name is the cache key
	Register(m *Material)

	// Material returns a ready material without blocking.
	//
	// Parameters:
	//   - name: the cache key
	//
	// Returns:
	//   - *Material: the material, or nil
	//   - bool: false while pending, failed or unknown
	Material(name string) (*Material, bool)

	// Status returns the load state of name and the load error, if any.
	Status(name string) (Status, error)

	// Wait blocks until every scheduled load has finished. Hosts call it at
	// startup; the frame graph never does.
	Wait()
}

var _ Loader = &loader{}

// NewLoader creates a Loader reading from the working directory with a
// background pool of two workers.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		entries:  make(map[string]*entry),
		backends: make(map[string]loaderBackend),
		workers:  2,
	}
	l.backends[".wgsl"] = newWGSLLoaderBackend(os.DirFS("."))
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(name, path string) error {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if e, ok := l.entries[name]; ok && e.status != StatusFailed {
		l.mu.Unlock()
		return nil
	}
	l.entries[name] = &entry{status: StatusPending}
	id := l.nextTask
	l.nextTask++
	l.pending.Add(1)
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer l.pending.Done()
			m, err := backend.Load(name, path)
			l.publish(name, m, err)
			return m, err
		},
	})
	return nil
}

func (l *loader) Register(m *Material) {
	if m == nil || m.Name == "" {
		return
	}
	l.publish(m.Name, m, nil)
}

func (l *loader) Material(name string) (*Material, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[name]
	if !ok || e.status != StatusReady {
		return nil, false
	}
	return e.material, true
}

func (l *loader) Status(name string) (Status, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[name]
	if !ok {
		return StatusUnknown, nil
	}
	return e.status, e.err
}

func (l *loader) Wait() {
	l.pending.Wait()
}

func (l *loader) publish(name string, m *Material, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.entries[name] = &entry{status: StatusFailed, err: err}
		common.Logger().Warn("material load failed", "material", name, "error", err)
		return
	}
	l.entries[name] = &entry{status: StatusReady, material: m}
	common.Logger().Debug("material ready", "material", name, "passes", m.Passes)
}

func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	backend, ok := l.backends[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	return backend, nil
}
