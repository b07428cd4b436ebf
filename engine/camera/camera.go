// Package camera describes the viewpoints the frame graph renders. A camera
// ties a scene to a window and carries its clear state and frustum.
package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/scene"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ClearFlag selects which attachments a camera clears at the start of its
// main pass.
type ClearFlag uint32

const (
	ClearNone    ClearFlag = 0
	ClearColor   ClearFlag = 1 << 0
	ClearDepth   ClearFlag = 1 << 1
	ClearStencil ClearFlag = 1 << 2

	// ClearSkybox draws the skybox behind the scene, which also requires a
	// cleared color target. It occupies the bit above ClearStencil.
	ClearSkybox ClearFlag = ClearStencil << 1

	ClearDepthStencil = ClearDepth | ClearStencil
	ClearAll          = ClearColor | ClearDepth | ClearStencil
)

// NeedClearColor reports whether the color target must be cleared rather than
// loaded. A skybox camera clears too, since the sky covers every pixel the
// scene leaves empty.
func NeedClearColor(flags ClearFlag) bool {
	return flags&(ClearColor|ClearSkybox) != 0
}

// NeedClearDepth reports whether the depth-stencil target must be cleared.
func NeedClearDepth(flags ClearFlag) bool {
	return flags&ClearDepthStencil != 0
}

// Usage is the role of a camera. Editor and preview cameras get the simpler
// forward path.
type Usage int

const (
	UsageGame Usage = iota
	UsageSceneView
	UsageEditor
	UsagePreview
)

// String returns the string representation of Usage.
func (u Usage) String() string {
	switch u {
	case UsageGame:
		return "game"
	case UsageSceneView:
		return "scene-view"
	case UsageEditor:
		return "editor"
	case UsagePreview:
		return "preview"
	default:
		return "unknown"
	}
}

type cameraImpl struct {
	mu *sync.Mutex

	name string

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	fov  float32
	near float32
	far  float32

	scene    scene.Scene
	window   window.Window
	viewport common.Rect

	clearColor   wgpu.Color
	clearFlags   ClearFlag
	clearDepth   float32
	clearStencil uint32

	usage Usage
}

// Camera defines the read-only view the frame graph builder takes of a camera,
// plus setters for the host to move it between frames.
//
// A camera is valid for rendering only when both Scene and Window are set.
type Camera interface {
	// Name returns the camera name used in pass labels.
	Name() string

	// Scene returns the scene this camera renders, or nil.
	Scene() scene.Scene

	// Window returns the window this camera presents to, or nil.
	Window() window.Window

	// Viewport returns the normalized viewport within the window.
	Viewport() common.Rect

	// ClearColor returns the color the main pass clears to.
	ClearColor() wgpu.Color

	// ClearFlags returns the attachments the main pass clears.
	ClearFlags() ClearFlag

	// ClearDepth returns the depth clear value.
	ClearDepth() float32

	// ClearStencil returns the stencil clear value.
	ClearStencil() uint32

	// Usage returns the camera role.
	Usage() Usage

	// ViewMatrix returns the world to view transform.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection. The aspect ratio
	// follows the window size when a window is attached.
	ProjectionMatrix() mgl32.Mat4

	// Frustum returns the world-space culling frustum of the camera.
	//
	// Returns:
	//   - common.Frustum: planes extracted from projection * view
	Frustum() common.Frustum

	// SetPosition moves the camera.
	SetPosition(x, y, z float32)

	// SetTarget sets the point the camera looks at.
	SetTarget(x, y, z float32)

	// SetScene attaches the scene to render.
	SetScene(s scene.Scene)

	// SetWindow attaches the output window.
	SetWindow(w window.Window)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, 5) looking at the origin, clearing
// color and depth-stencil.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		name:       "camera",
		position:   mgl32.Vec3{0, 0, 5},
		up:         mgl32.Vec3{0, 1, 0},
		fov:        mgl32.DegToRad(45),
		near:       0.1,
		far:        100.0,
		viewport:   common.FullRect,
		clearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		clearFlags: ClearAll,
		clearDepth: 1.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Name() string {
	return c.name
}

func (c *cameraImpl) Scene() scene.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene
}

func (c *cameraImpl) Window() window.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window
}

func (c *cameraImpl) Viewport() common.Rect {
	return c.viewport
}

func (c *cameraImpl) ClearColor() wgpu.Color {
	return c.clearColor
}

func (c *cameraImpl) ClearFlags() ClearFlag {
	return c.clearFlags
}

func (c *cameraImpl) ClearDepth() float32 {
	return c.clearDepth
}

func (c *cameraImpl) ClearStencil() uint32 {
	return c.clearStencil
}

func (c *cameraImpl) Usage() Usage {
	return c.usage
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.LookAtV(c.position, c.target, c.up)
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Perspective(c.fov, c.aspect(), c.near, c.far)
}

func (c *cameraImpl) Frustum() common.Frustum {
	vp := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	return common.ExtractFrustumFromMatrix(vp[:])
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = mgl32.Vec3{x, y, z}
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = mgl32.Vec3{x, y, z}
}

func (c *cameraImpl) SetScene(s scene.Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene = s
}

func (c *cameraImpl) SetWindow(w window.Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = w
}

// aspect derives width / height from the viewport on the attached window.
// Caller must hold the mutex.
func (c *cameraImpl) aspect() float32 {
	if c.window == nil || c.window.Height() == 0 {
		return 1
	}
	vp := c.viewport.Scale(uint32(c.window.Width()), uint32(c.window.Height()))
	if vp.Height == 0 {
		return 1
	}
	return vp.Width / vp.Height
}
