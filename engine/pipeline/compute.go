package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Materials used by the compute builder.
const (
	ComputeMaterial = "rt1w"
	SwizzleMaterial = "swizzleQuad"
)

// Workgroup size of the compute material.
const (
	computeGroupX = 8
	computeGroupY = 4
)

func storageName(id uint32) string {
	return fmt.Sprintf("Storage%d", id)
}

type compute struct {
	copyOut bool
}

var _ Builder = &compute{}

// NewCompute creates a builder that fills a storage texture from a compute
// dispatch and presents it, through a fullscreen swizzle pass by default or
// a copy pass with WithCopyOut.
//
// Parameters:
//   - options: functional options to configure the builder
//
// Returns:
//   - Builder: the compute builder
func NewCompute(options ...ComputeBuilderOption) Builder {
	c := &compute{}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *compute) Setup(ctx *Context, g *graph.Builder, cameras []camera.Camera) error {
	declare := func(id, width, height uint32) {
		declareWindowTargets(ctx, id, width, height)
		ctx.Declare(resource.DeclareStorageTexture(ctx.Registry(), storageName(id), wgpu.TextureFormatRGBA8Unorm, width, height, 1, resource.Managed))
	}
	hooks := window.HookFuncs{Init: declare, Update: declare}
	for _, cam := range cameras {
		info, ok := ctx.Prepare(cam, hooks)
		if !ok {
			continue
		}
		if err := c.build(ctx, g, info); err != nil {
			return err
		}
	}
	return nil
}

func (c *compute) build(ctx *Context, g *graph.Builder, info *window.Info) error {
	id, width, height := info.ID, info.Width, info.Height
	storage := storageName(id)

	cp, err := g.AddComputePass(ComputeMaterial)
	if err != nil {
		return err
	}
	cp.AddStorageImage(storage, graph.AccessWrite, "co").
		AddQueue(graph.QueueHintNone, "dispatch").
		AddDispatch(width/computeGroupX, height/computeGroupY, 1, ctx.Material(ComputeMaterial))

	if c.copyOut {
		return g.AddCopyPass([]graph.CopyPair{{
			Source:    storage,
			Target:    resource.ColorName(id),
			MipLevels: 1,
			NumSlices: 1,
		}})
	}

	pass, err := g.AddRenderPass(width, height, "swizzle")
	if err != nil {
		return err
	}
	pass.AddRenderTarget(resource.ColorName(id), graph.LoadOpDiscard, graph.StoreOpStore, wgpu.Color{}).
		AddTexture(storage, "mainTexture")
	pass.AddQueue(graph.QueueHintOpaque, "swizzle-phase").
		AddFullscreenQuad(ctx.Material(SwizzleMaterial), 0, graph.SceneNone)
	return nil
}

// ComputeBuilderOption is a functional option for configuring the compute builder.
type ComputeBuilderOption func(*compute)

// WithCopyOut presents the storage texture with a copy pass instead of the
// swizzle pass.
func WithCopyOut(enabled bool) ComputeBuilderOption {
	return func(c *compute) {
		c.copyOut = enabled
	}
}
