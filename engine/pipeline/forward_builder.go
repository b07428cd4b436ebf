package pipeline

// ForwardBuilderOption is a functional option for configuring the forward builder.
type ForwardBuilderOption func(*forward)

// WithGPUDriven switches every camera to GPU-driven occlusion culling.
//
// Parameters:
//   - enabled: true to cull on the GPU
//
// Returns:
//   - ForwardBuilderOption: option function to apply
func WithGPUDriven(enabled bool) ForwardBuilderOption {
	return func(f *forward) {
		f.gpuDriven = enabled
	}
}

// WithLighting toggles local light culling and the per-light queues. When
// off only the main light shades the scene.
func WithLighting(enabled bool) ForwardBuilderOption {
	return func(f *forward) {
		f.lighting = enabled
	}
}

// WithShadows toggles the cascaded and spot light shadow passes. Scenes must
// also enable shadows in their settings.
func WithShadows(enabled bool) ForwardBuilderOption {
	return func(f *forward) {
		f.shadows = enabled
	}
}

// WithEditorPath routes editor and preview cameras to the single pass editor
// path. When off they render like game cameras.
func WithEditorPath(enabled bool) ForwardBuilderOption {
	return func(f *forward) {
		f.editorPath = enabled
	}
}
