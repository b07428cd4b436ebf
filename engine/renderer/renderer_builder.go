package renderer

import "log/slog"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithSurfaceTarget names the window color resource backed by the surface.
// Defaults to the color target of the first resolved window.
//
// Parameters:
//   - name: the render window resource name
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface target option to a renderer
func WithSurfaceTarget(name string) RendererBuilderOption {
	return func(r *renderer) {
		r.surfaceTarget = name
	}
}

// WithDrawer sets the collaborator that records queue draws, dispatches and
// culling work. Without one, passes only run their load and store ops.
//
// Parameters:
//   - d: the Drawer to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the drawer option to a renderer
func WithDrawer(d Drawer) RendererBuilderOption {
	return func(r *renderer) {
		r.drawer = d
	}
}

// WithLogger overrides the engine logger for this renderer.
//
// Parameters:
//   - l: the logger to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(l *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = l
	}
}

// WithBackend supplies a ready backend instead of creating one from the
// backend type.
//
// Parameters:
//   - b: the backend to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}
