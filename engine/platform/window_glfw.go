// Package platform provides the GLFW-backed implementation of window.Window.
package platform

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// nextHandle issues window handles. Handles start at 1 so the zero value never
// names a live window.
var nextHandle atomic.Uint64

// Window is a platform window that the frame graph builder can resolve.
// Besides the window.Window view it exposes the message loop and the WebGPU
// surface descriptor the executor needs.
type Window interface {
	window.Window

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for creating the
	// presentation surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// InvalidateFramebuffer marks the current framebuffer as replaced. Call it
	// after the presentation surface is recreated so cached resources get
	// updated on the next frame even when the size is unchanged.
	InvalidateFramebuffer()

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// ProcessMessages runs the message loop until the window is closed.
	ProcessMessages()

	// IsRunning returns true while the window is open.
	//
	// Returns:
	//   - bool: true if the window is running
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error
}

// glfwWindow is the implementation of the Window interface.
type glfwWindow struct {
	handle window.Handle

	// framebuffer is bumped whenever the surface is recreated.
	framebuffer atomic.Uint64

	title     string
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height track the framebuffer size, not the window size, which
	// differ on high-DPI displays.
	width  int
	height int

	win     *glfw.Window
	running bool

	onUpdate func()
	onResize func(width, height int)
}

var _ Window = &glfwWindow{}

// NewWindow creates and shows a GLFW window configured for WebGPU (no client
// API). Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if GLFW fails to initialize or create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &glfwWindow{
		handle:    window.Handle(nextHandle.Add(1)),
		title:     "Default Window Title",
		maxWidth:  glfw.DontCare,
		maxHeight: glfw.DontCare,
		minWidth:  glfw.DontCare,
		minHeight: glfw.DontCare,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := w.create(); err != nil {
		return nil, err
	}
	return w, nil
}

// create builds the GLFW window and registers the framebuffer callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func (w *glfwWindow) create() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	w.win = win
	w.running = true

	// Framebuffer size is what the render targets are allocated with.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	// Restoring from minimized recreates the swapchain on most platforms.
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if !iconified {
			w.InvalidateFramebuffer()
		}
	})

	w.width, w.height = win.GetFramebufferSize()
	return nil
}

func (w *glfwWindow) Handle() window.Handle {
	return w.handle
}

func (w *glfwWindow) Width() int {
	return w.width
}

func (w *glfwWindow) Height() int {
	return w.height
}

func (w *glfwWindow) Framebuffer() window.FramebufferID {
	return window.FramebufferID(w.framebuffer.Load())
}

func (w *glfwWindow) InvalidateFramebuffer() {
	w.framebuffer.Add(1)
}

// SurfaceDescriptor uses the wgpuglfw bridge which has per-platform
// implementations (Windows, X11, Wayland, macOS).
func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.win == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

func (w *glfwWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *glfwWindow) ProcessMessages() {
	for w.IsRunning() {
		glfw.PollEvents()
		if !w.IsRunning() {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *glfwWindow) IsRunning() bool {
	return w.win != nil && w.running && !w.win.ShouldClose()
}

func (w *glfwWindow) Close() error {
	if w.win == nil {
		return fmt.Errorf("window is not initialized")
	}
	w.running = false
	w.win.SetShouldClose(true)
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	return nil
}
