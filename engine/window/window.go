// Package window describes the window collaborator consumed by the frame graph
// builder and caches the per-window identity and dimensions the builder uses to
// name its resources.
package window

// Handle is the stable integer identity issued by the window-management
// collaborator. Handles are never reused for a different window.
type Handle uint64

// FramebufferID identifies the framebuffer currently backing a window. It
// changes whenever the platform recreates the surface, which lets the cache
// detect a reused window even when its dimensions are unchanged.
type FramebufferID uint64

// Window is the read-only view of a platform window needed per frame.
type Window interface {
	// Handle returns the stable identity of the window.
	//
	// Returns:
	//   - Handle: the window handle
	Handle() Handle

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// Framebuffer returns the identity of the framebuffer currently presented.
	//
	// Returns:
	//   - FramebufferID: the framebuffer identity
	Framebuffer() FramebufferID
}
