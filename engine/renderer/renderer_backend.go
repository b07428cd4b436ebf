package renderer

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeRecording keeps executed plans in memory without a device.
	// Headless tools and tests use it.
	BackendTypeRecording
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend submits lowered plans to a device.
type RendererBackend interface {
	// Submit encodes every step of the plan in order and submits the result.
	//
	// Parameters:
	//   - plan: the lowered frame graph
	//
	// Returns:
	//   - error: an error if a resource could not be created or encoding failed
	Submit(plan *Plan) error

	// ConfigureSurface resizes the presentation surface, if any.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Release frees every device resource held by the backend.
	Release()
}
