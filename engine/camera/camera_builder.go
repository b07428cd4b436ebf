package camera

import (
	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/scene"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithName sets the camera name used in pass labels and logs.
func WithName(name string) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.name = common.Coalesce(name, c.name)
	}
}

// WithPosition sets the camera's world-space position.
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl32.Vec3{x, y, z}
	}
}

// WithTarget sets the point the camera looks at.
func WithTarget(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = mgl32.Vec3{x, y, z}
	}
}

// WithUp sets the camera's up vector.
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = mgl32.Vec3{x, y, z}
	}
}

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithClipPlanes sets the near and far clip distances.
//
// Parameters:
//   - near: near plane distance, > 0
//   - far: far plane distance, > near
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithScene attaches the scene to render.
func WithScene(s scene.Scene) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.scene = s
	}
}

// WithWindow attaches the output window.
func WithWindow(w window.Window) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.window = w
	}
}

// WithViewport sets the normalized viewport within the window.
//
// Parameters:
//   - viewport: rectangle with coordinates in [0, 1]
//
// Returns:
//   - CameraBuilderOption: a function that sets the viewport
func WithViewport(viewport common.Rect) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewport = viewport
	}
}

// WithClearColor sets the color the main pass clears to.
func WithClearColor(color wgpu.Color) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.clearColor = color
	}
}

// WithClearFlags sets which attachments the main pass clears.
func WithClearFlags(flags ClearFlag) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.clearFlags = flags
	}
}

// WithClearDepthStencil sets the depth and stencil clear values.
func WithClearDepthStencil(depth float32, stencil uint32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.clearDepth = depth
		c.clearStencil = stencil
	}
}

// WithUsage sets the camera role.
func WithUsage(usage Usage) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.usage = usage
	}
}
