package pipeline

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
)

var (
	// ErrBuilderExists is returned when a name is registered twice.
	ErrBuilderExists = errors.New("pipeline: builder already registered")

	// ErrNilBuilder is returned when registering a nil builder.
	ErrNilBuilder = errors.New("pipeline: nil builder")
)

var (
	buildersMu sync.RWMutex
	builders   = make(map[string]Builder)
)

// Register makes a builder available by name to hosts that select their
// pipeline from configuration.
//
// Parameters:
//   - name: the lookup name
//   - b: the builder
//
// Returns:
//   - error: ErrNilBuilder or ErrBuilderExists
func Register(name string, b Builder) error {
	if b == nil {
		return fmt.Errorf("%w: %q", ErrNilBuilder, name)
	}
	buildersMu.Lock()
	defer buildersMu.Unlock()
	if _, ok := builders[name]; ok {
		return fmt.Errorf("%w: %q", ErrBuilderExists, name)
	}
	builders[name] = b
	common.Logger().Debug("pipeline registered", "pipeline", name)
	return nil
}

// Lookup returns the builder registered under name.
func Lookup(name string) (Builder, bool) {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	b, ok := builders[name]
	return b, ok
}

// Registered returns every registered name in sorted order.
func Registered() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	return slices.Sorted(maps.Keys(builders))
}

// unregister is used by tests to keep the process-wide table clean.
func unregister(name string) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	delete(builders, name)
}
