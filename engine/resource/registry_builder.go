package resource

// RegistryBuilderOption is a functional option for configuring a registry.
// Use the With* functions to create options.
type RegistryBuilderOption func(r *registryImpl)

// WithChangeCallback sets a function called after every create or in-place
// update. Executors use it to reallocate backing memory.
//
// Parameters:
//   - callback: receives the stored descriptor and whether it was just created
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithChangeCallback(callback func(desc Descriptor, created bool)) RegistryBuilderOption {
	return func(r *registryImpl) {
		r.onChange = callback
	}
}
