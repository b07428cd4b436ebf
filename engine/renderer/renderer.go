// Package renderer executes sealed frame graphs. A graph is first lowered to a
// Plan of WebGPU descriptors and steps, then handed to a backend.
package renderer

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// Executor runs the passes of a sealed frame graph in order.
type Executor interface {
	// Execute lowers the graph against its registry and submits it.
	//
	// Parameters:
	//   - fg: the sealed frame graph
	//   - reg: the registry the graph was built against
	//
	// Returns:
	//   - error: ErrNilGraph, ErrUnknownResource or a backend error
	Execute(fg *graph.FrameGraph, reg resource.Registry) error
}

// Surface is the presentation target of the WebGPU backend.
// platform.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Renderer is an Executor bound to one backend.
type Renderer interface {
	Executor

	// Resize configures the backend for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// LastPlan returns the plan submitted by the most recent Execute.
	//
	// Returns:
	//   - *Plan: the plan, or nil before the first frame
	LastPlan() *Plan

	// Release frees the backend.
	Release()
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger
	lastPlan    *Plan

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	surfaceTarget        string
	drawer               Drawer
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer with the chosen backend. The WebGPU backend
// presents the surface target resource on the given surface; the recording
// backend ignores the surface.
//
// Parameters:
//   - backendType: the backend to create
//   - surface: the presentation surface, may be nil for BackendTypeRecording
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if the WebGPU device could not be created
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		backendType:   backendType,
		surfaceTarget: resource.ColorName(0),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch {
	case r.backend != nil:
	case backendType == BackendTypeRecording:
		r.backend = NewRecordingBackend()
	default:
		b, err := newWGPURendererBackend(surface, r.surfaceTarget, r.forceFallbackAdapter, r.drawer)
		if err != nil {
			return nil, err
		}
		r.backend = b
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if surface != nil {
		r.backend.ConfigureSurface(surface.Width(), surface.Height())
	}
	return r, nil
}

func (r *renderer) Execute(fg *graph.FrameGraph, reg resource.Registry) error {
	plan, err := NewPlan(fg, reg)
	if err != nil {
		r.log().Error("frame plan failed", "err", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.backend.Submit(plan); err != nil {
		r.log().Error("frame submit failed", "frame", plan.Label, "err", err)
		return err
	}
	r.lastPlan = plan
	r.log().Debug("frame submitted", "frame", plan.Label, "steps", len(plan.Steps), "resources", len(plan.Resources))
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
}

func (r *renderer) LastPlan() *Plan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPlan
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}

func (r *renderer) log() *slog.Logger {
	return common.Coalesce(r.logger, common.Logger())
}
