package resource

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
)

// Registry is the name to descriptor table of one pipeline instance.
// Names are never shared across registries.
type Registry interface {
	// Declare creates the resource if the name is unknown, otherwise updates it
	// in place. Changing the kind of an existing name fails with
	// ErrDescriptorConflict and leaves the stored descriptor unchanged.
	//
	// Parameters:
	//   - desc: the descriptor to store
	//
	// Returns:
	//   - bool: true if the name was created by this call
	//   - error: ErrInvalidDescriptor or ErrDescriptorConflict
	Declare(desc Descriptor) (bool, error)

	// Contains reports whether a name has been declared.
	Contains(name string) bool

	// Get returns the descriptor stored under name.
	//
	// Parameters:
	//   - name: the resource name
	//
	// Returns:
	//   - Descriptor: the stored descriptor
	//   - bool: false if the name is unknown
	Get(name string) (Descriptor, bool)

	// Names returns every declared name in sorted order.
	Names() []string

	// Len returns the number of declared names.
	Len() int
}

// registryImpl is the implementation of the Registry interface.
type registryImpl struct {
	descs    map[string]Descriptor
	onChange func(desc Descriptor, created bool)
}

var _ Registry = &registryImpl{}

// NewRegistry creates an empty registry.
//
// Parameters:
//   - options: functional options to configure the registry
//
// Returns:
//   - Registry: the new registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registryImpl{
		descs: make(map[string]Descriptor),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registryImpl) Declare(desc Descriptor) (bool, error) {
	if err := validate(desc); err != nil {
		return false, err
	}
	desc = desc.normalized()

	old, ok := r.descs[desc.Name]
	if ok && old.Kind != desc.Kind {
		common.Logger().Error("resource kind conflict",
			"resource", desc.Name, "declared", old.Kind, "requested", desc.Kind)
		return false, fmt.Errorf("%w: %q declared as %s, requested %s",
			ErrDescriptorConflict, desc.Name, old.Kind, desc.Kind)
	}
	if ok && old == desc {
		return false, nil
	}

	r.descs[desc.Name] = desc
	if ok {
		common.Logger().Debug("resource updated",
			"resource", desc.Name, "width", desc.Width, "height", desc.Height)
	} else {
		common.Logger().Debug("resource declared",
			"resource", desc.Name, "kind", desc.Kind, "residency", desc.Residency)
	}
	if r.onChange != nil {
		r.onChange(desc, !ok)
	}
	return !ok, nil
}

func (r *registryImpl) Contains(name string) bool {
	_, ok := r.descs[name]
	return ok
}

func (r *registryImpl) Get(name string) (Descriptor, bool) {
	d, ok := r.descs[name]
	return d, ok
}

func (r *registryImpl) Names() []string {
	return slices.Sorted(maps.Keys(r.descs))
}

func (r *registryImpl) Len() int {
	return len(r.descs)
}

func validate(desc Descriptor) error {
	if desc.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	}
	if desc.Kind.IsBuffer() {
		if desc.Size == 0 {
			return fmt.Errorf("%w: buffer %q has zero size", ErrInvalidDescriptor, desc.Name)
		}
		return nil
	}
	if desc.Width == 0 || desc.Height == 0 {
		return fmt.Errorf("%w: texture %q has zero extent %dx%d",
			ErrInvalidDescriptor, desc.Name, desc.Width, desc.Height)
	}
	return nil
}
