// Package pipeline drives per-frame graph construction. A Context carries
// the state that outlives a frame (window cache, resource registry, frame
// parity) and a Builder turns the frame's cameras into passes.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/asset"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
)

var (
	// ErrDeclarationFailed wraps a resource declaration that failed while a
	// frame was being set up. The frame is dropped.
	ErrDeclarationFailed = errors.New("pipeline: resource declaration failed")

	// ErrContextBroken is returned by every Setup after a declaration hit
	// resource.ErrDescriptorConflict. The context must be replaced.
	ErrContextBroken = errors.New("pipeline: context unusable after descriptor conflict")
)

// Builder emits the passes of one frame.
type Builder interface {
	// Setup declares every pass for the given cameras into g.
	//
	// Parameters:
	//   - ctx: the pipeline context
	//   - g: the frame's graph builder, in the Building state
	//   - cameras: the cameras to render, in order
	//
	// Returns:
	//   - error: the first top-level graph error
	Setup(ctx *Context, g *graph.Builder, cameras []camera.Camera) error
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx *Context, g *graph.Builder, cameras []camera.Camera) error

func (f BuilderFunc) Setup(ctx *Context, g *graph.Builder, cameras []camera.Camera) error {
	return f(ctx, g, cameras)
}

// Context is the process-wide pipeline state. It is owned by the frame
// thread and is not safe for concurrent use.
type Context struct {
	cache    *window.Cache
	registry resource.Registry
	device   Device
	assets   asset.Loader
	logger   *slog.Logger
	graph    *graph.Builder

	graphOptions []graph.BuilderOption
	flipY        bool
	frame        uint64
	parity       uint32
	cullingID    uint32

	declErr  error // first failed declaration of the current frame
	conflict error // sticky descriptor conflict
}

// NewContext creates a context with an empty window cache and registry.
//
// Parameters:
//   - options: functional options to configure the context
//
// Returns:
//   - *Context: the new context
func NewContext(options ...ContextBuilderOption) *Context {
	c := &Context{
		cache:  window.NewCache(),
		device: DefaultDevice(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.registry == nil {
		c.registry = resource.NewRegistry()
	}
	opts := c.graphOptions
	if c.logger != nil {
		opts = append([]graph.BuilderOption{graph.WithLogger(c.logger)}, opts...)
	}
	c.graph = graph.New(c.registry, opts...)
	return c
}

// Setup builds and seals one frame. The culling id counter restarts at zero
// and the frame parity flips once afterwards, whether or not the graph
// sealed, so double-buffered names keep alternating.
//
// A failed declaration drops the frame. A descriptor kind conflict also
// refuses every later frame without touching the parity.
//
// Parameters:
//   - cameras: the cameras to render
//   - b: the builder emitting the passes
//
// Returns:
//   - *graph.FrameGraph: the sealed graph, nil on error
//   - error: the builder error or the joined seal errors
func (c *Context) Setup(cameras []camera.Camera, b Builder) (*graph.FrameGraph, error) {
	if b == nil {
		return nil, ErrNilBuilder
	}
	if c.conflict != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextBroken, c.conflict)
	}
	c.cullingID = 0
	c.declErr = nil
	c.graph.Reset()
	c.graph.SetLabel(fmt.Sprintf("frame-%d", c.frame))
	defer func() {
		c.frame++
		c.parity ^= 1
	}()

	if err := b.Setup(c, c.graph, cameras); err != nil {
		c.log().Error("pipeline setup failed", "frame", c.frame, "error", err)
		// Seal anyway so the builder ends the frame sealed.
		c.graph.Seal()
		return nil, err
	}
	if c.declErr != nil {
		c.log().Error("frame dropped on declaration failure", "frame", c.frame, "error", c.declErr)
		c.graph.Seal()
		return nil, fmt.Errorf("%w: %w", ErrDeclarationFailed, c.declErr)
	}
	return c.graph.Seal()
}

// Prepare validates a camera and resolves its window against the cache.
// Cameras without a scene or window are skipped, as are windows that have
// not reported a usable size yet or currently report a zero extent.
//
// Parameters:
//   - cam: the camera to prepare
//   - hooks: resource callbacks fired on first sight or change; may be nil
//
// Returns:
//   - *window.Info: the window record
//   - bool: false if the camera must be skipped this frame
func (c *Context) Prepare(cam camera.Camera, hooks window.Hooks) (*window.Info, bool) {
	if cam == nil || cam.Scene() == nil || cam.Window() == nil {
		return nil, false
	}
	info, state := c.cache.Resolve(cam.Window(), hooks)
	switch state {
	case window.StateUninitialized:
		c.log().Debug("camera skipped, window not configured", "camera", cam.Name(), "window", info.ID)
		return info, false
	case window.StateSuspended:
		c.log().Debug("camera skipped, window has a zero extent", "camera", cam.Name(), "window", info.ID)
		return info, false
	}
	return info, true
}

// NextCullingID allocates the next culling id of the frame.
func (c *Context) NextCullingID() uint32 {
	id := c.cullingID
	c.cullingID++
	return id
}

// FrameParity returns 0 or 1. It selects which of two double-buffered
// resources is written this frame.
func (c *Context) FrameParity() uint32 {
	return c.parity
}

// Frame returns the number of completed Setup calls.
func (c *Context) Frame() uint64 {
	return c.frame
}

// Cache returns the window cache.
func (c *Context) Cache() *window.Cache {
	return c.cache
}

// Registry returns the resource registry.
func (c *Context) Registry() resource.Registry {
	return c.registry
}

// Device returns the capability query.
func (c *Context) Device() Device {
	return c.device
}

// FlipY reports whether screen space Y points up on the device.
func (c *Context) FlipY() bool {
	return c.flipY
}

// Material returns a loaded material, or nil while it is missing. Graph
// queues turn a nil material into a MissingAsset hazard.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - *asset.Material: the material, or nil
func (c *Context) Material(name string) *asset.Material {
	if c.assets == nil {
		return nil
	}
	m, ok := c.assets.Material(name)
	if !ok {
		return nil
	}
	return m
}

// Declare records the outcome of a declaration made from a window hook or
// a builder. The first failure of the frame is returned by Setup, and a
// descriptor conflict stays recorded for the life of the context.
func (c *Context) Declare(_ bool, err error) {
	if err == nil {
		return
	}
	c.log().Error("resource declaration failed", "error", err)
	if c.declErr == nil {
		c.declErr = err
	}
	if c.conflict == nil && errors.Is(err, resource.ErrDescriptorConflict) {
		c.conflict = err
	}
}

func (c *Context) log() *slog.Logger {
	return common.Coalesce(c.logger, common.Logger())
}
