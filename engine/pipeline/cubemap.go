package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// CubemapSampleMaterial draws one array layer over a viewport.
const CubemapSampleMaterial = "sampleTexture"

const cubeFaces = 6

// faceColors clears each face to a distinct color: +X, -X, +Y, -Y, +Z, -Z.
var faceColors = [cubeFaces]wgpu.Color{
	{R: 1, A: 1},
	{G: 1, A: 1},
	{B: 1, A: 1},
	{R: 1, G: 1, A: 1},
	{R: 1, B: 1, A: 1},
	{G: 1, B: 1, A: 1},
}

func cubeFaceName(id uint32, face int) string {
	return fmt.Sprintf("CubeFace%d_%d", id, face)
}

func cubeHalfName(id uint32, half int) string {
	return fmt.Sprintf("CubeHalf%d_%d", id, half)
}

func cubeArrayName(id uint32) string {
	return fmt.Sprintf("CubeArray%d", id)
}

type cubemap struct{}

var _ Builder = cubemap{}

// NewCubemap creates a builder that assembles a six layer texture array
// without copies. Six passes render one face each, move passes hand the
// faces to two three layer arrays and those to the six layer array, and six
// passes sample one layer each into a 3x2 grid of the window.
//
// Returns:
//   - Builder: the cubemap builder
func NewCubemap() Builder {
	return cubemap{}
}

func (cubemap) Setup(ctx *Context, g *graph.Builder, cameras []camera.Camera) error {
	declare := func(id, width, height uint32) {
		declareWindowTargets(ctx, id, width, height)
		declareCubemapTargets(ctx, id, width, height)
	}
	hooks := window.HookFuncs{Init: declare, Update: declare}
	for _, cam := range cameras {
		info, ok := ctx.Prepare(cam, hooks)
		if !ok {
			continue
		}
		if err := buildCubemap(ctx, g, cam, info); err != nil {
			return err
		}
	}
	return nil
}

func declareCubemapTargets(ctx *Context, id, width, height uint32) {
	r := ctx.Registry()
	format := wgpu.TextureFormatRGBA8Unorm
	for face := range cubeFaces {
		ctx.Declare(resource.DeclareRenderTarget(r, cubeFaceName(id, face), format, width, height, resource.Managed))
	}
	for half := range 2 {
		ctx.Declare(resource.DeclareTextureArray(r, cubeHalfName(id, half), format, width, height, cubeFaces/2, resource.Managed))
	}
	ctx.Declare(resource.DeclareTextureArray(r, cubeArrayName(id), format, width, height, cubeFaces, resource.Managed))
}

func buildCubemap(ctx *Context, g *graph.Builder, cam camera.Camera, info *window.Info) error {
	id, width, height := info.ID, info.Width, info.Height
	vp := cam.Viewport().Scale(width, height)

	for face := range cubeFaces {
		pass, err := g.AddRenderPass(width, height, "default")
		if err != nil {
			return err
		}
		pass.SetName(fmt.Sprintf("CubeFace%d", face)).SetViewport(vp).
			AddRenderTarget(cubeFaceName(id, face), graph.LoadOpClear, graph.StoreOpStore, faceColors[face]).
			AddDepthStencil(resource.DepthStencilName(id), graph.LoadOpClear, graph.StoreOpDiscard, 1, 0)
		pass.AddQueue(graph.QueueHintNone, "opaque").
			AddScene(cam, graph.SceneOpaque|graph.SceneMask, graph.LightBinding{})
	}

	for half := range 2 {
		pairs := make([]graph.MovePair, 0, cubeFaces/2)
		for slice := range cubeFaces / 2 {
			pairs = append(pairs, graph.MovePair{
				Source:           cubeFaceName(id, half*cubeFaces/2+slice),
				Target:           cubeHalfName(id, half),
				MipLevels:        1,
				NumSlices:        1,
				TargetFirstSlice: uint32(slice),
			})
		}
		if err := g.AddMovePass(pairs); err != nil {
			return err
		}
	}
	if err := g.AddMovePass([]graph.MovePair{
		{Source: cubeHalfName(id, 0), Target: cubeArrayName(id), MipLevels: 1, NumSlices: cubeFaces / 2},
		{Source: cubeHalfName(id, 1), Target: cubeArrayName(id), MipLevels: 1, NumSlices: cubeFaces / 2, TargetFirstSlice: cubeFaces / 2},
	}); err != nil {
		return err
	}

	mat := ctx.Material(CubemapSampleMaterial)
	cellW, cellH := float32(width)/3, float32(height)/2
	for face := range cubeFaces {
		load := graph.LoadOpLoad
		if face == 0 {
			load = graph.LoadOpClear
		}
		pass, err := g.AddRenderPass(width, height, "sampleTexture")
		if err != nil {
			return err
		}
		pass.AddRenderTarget(resource.ColorName(id), load, graph.StoreOpStore, wgpu.Color{}).
			AddTextureSlice(cubeArrayName(id), "mainTexture", uint32(face))
		pass.AddQueue(graph.QueueHintNone, "sampleTexture-phase").
			SetViewport(common.Rect{
				X:      float32(face%3) * cellW,
				Y:      float32(face/3) * cellH,
				Width:  cellW,
				Height: cellH,
			}).
			AddFullscreenQuad(mat, 0, graph.SceneOpaque)
	}
	return nil
}
