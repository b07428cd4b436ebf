package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Materials drawn by the sub-pass builder, one per sub-pass.
const (
	SubpassMaterial0 = "subpassMat0"
	SubpassMaterial1 = "subpassMat1"
	SubpassMaterial2 = "subpassMat2"
)

// subpassTargetName names the per-window intermediate targets of the
// sub-pass chain. Index 0 to 3 are memoryless, 4 is the managed result.
func subpassTargetName(id uint32, index int) string {
	return fmt.Sprintf("SubpassTarget%d_%d", id, index)
}

type subpassChain struct{}

var _ Builder = subpassChain{}

// NewSubpass creates a builder that renders one pass of three chained
// sub-passes and copies the result into the window.
//
// The first sub-pass clears four memoryless targets, the second reads two of
// them as input attachments and writes the result target, the third reads
// the other two and blends into the result. Memoryless contents never leave
// the pass.
//
// Returns:
//   - Builder: the sub-pass builder
func NewSubpass() Builder {
	return subpassChain{}
}

func (subpassChain) Setup(ctx *Context, g *graph.Builder, cameras []camera.Camera) error {
	hooks := window.HookFuncs{
		Init: func(id, width, height uint32) {
			declareWindowTargets(ctx, id, width, height)
		},
		Update: func(id, width, height uint32) {
			declareWindowTargets(ctx, id, width, height)
		},
	}
	for _, cam := range cameras {
		info, ok := ctx.Prepare(cam, hooks)
		if !ok {
			continue
		}
		if err := buildSubpassChain(ctx, g, info); err != nil {
			return err
		}
	}
	return nil
}

func buildSubpassChain(ctx *Context, g *graph.Builder, info *window.Info) error {
	id, width, height := info.ID, info.Width, info.Height
	r := ctx.Registry()
	for i := range 4 {
		ctx.Declare(resource.DeclareRenderTarget(r, subpassTargetName(id, i), wgpu.TextureFormatRGBA8Unorm, width, height, resource.Memoryless))
	}
	result := subpassTargetName(id, 4)
	ctx.Declare(resource.DeclareRenderTarget(r, result, wgpu.TextureFormatRGBA8Unorm, width, height, resource.Managed))

	transparent := wgpu.Color{}
	pass, err := g.AddRenderPass(width, height, "subpassInOut")
	if err != nil {
		return err
	}

	first := pass.AddRenderSubpass("subpass0")
	for i := range 4 {
		first.AddRenderTarget(subpassTargetName(id, i), graph.AccessWrite, "_", graph.LoadOpClear, graph.StoreOpDiscard, transparent)
	}
	first.AddQueue(graph.QueueHintOpaque, "subpass0-phase0").
		AddFullscreenQuad(ctx.Material(SubpassMaterial0), 0, graph.SceneNone)

	second := pass.AddRenderSubpass("subpass1").
		AddRenderTarget(subpassTargetName(id, 0), graph.AccessRead, "cInZ", graph.LoadOpDiscard, graph.StoreOpStore, transparent).
		AddRenderTarget(subpassTargetName(id, 1), graph.AccessRead, "cInA", graph.LoadOpDiscard, graph.StoreOpStore, transparent).
		AddRenderTarget(result, graph.AccessWrite, "color", graph.LoadOpClear, graph.StoreOpStore, transparent)
	second.AddQueue(graph.QueueHintOpaque, "subpass1-phase0").
		AddFullscreenQuad(ctx.Material(SubpassMaterial1), 0, graph.SceneNone)

	third := pass.AddRenderSubpass("subpass2").
		AddRenderTarget(subpassTargetName(id, 3), graph.AccessRead, "c1", graph.LoadOpLoad, graph.StoreOpDiscard, transparent).
		AddRenderTarget(subpassTargetName(id, 2), graph.AccessRead, "c0", graph.LoadOpLoad, graph.StoreOpDiscard, transparent).
		AddRenderTarget(result, graph.AccessReadWrite, "color", graph.LoadOpLoad, graph.StoreOpStore, transparent)
	third.AddQueue(graph.QueueHintOpaque, "subpass2-phase0").
		AddFullscreenQuad(ctx.Material(SubpassMaterial2), 0, graph.SceneNone)

	return g.AddCopyPass([]graph.CopyPair{{
		Source:    result,
		Target:    resource.ColorName(id),
		MipLevels: 1,
		NumSlices: 1,
	}})
}
