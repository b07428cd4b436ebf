package pipeline

import (
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/lighting"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
)

// forward is the implementation of the Forward builder.
type forward struct {
	gpuDriven  bool
	lighting   bool
	shadows    bool
	editorPath bool
}

var _ Builder = &forward{}

// NewForward creates the forward builder.
//
// Game and scene-view cameras get cascaded shadows for the main light, one
// blend queue per visible local light and a shadow pass pair per shadowed
// spot light. Editor and preview cameras get a single pass lit by the main
// light. With GPU-driven culling every camera instead gets a main and a post
// pass around occlusion culling against a double-buffered Hi-Z chain.
//
// Parameters:
//   - options: functional options to configure the builder
//
// Returns:
//   - Builder: the forward builder
func NewForward(options ...ForwardBuilderOption) Builder {
	f := &forward{
		lighting:   true,
		shadows:    true,
		editorPath: true,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *forward) Setup(ctx *Context, g *graph.Builder, cameras []camera.Camera) error {
	for _, cam := range cameras {
		info, ok := ctx.Prepare(cam, f.hooks(ctx))
		if !ok {
			continue
		}
		var err error
		switch {
		case f.gpuDriven:
			err = f.buildGPUDriven(ctx, g, cam, info)
		case f.editorPath && (cam.Usage() == camera.UsageEditor || cam.Usage() == camera.UsagePreview):
			err = f.buildEditor(g, cam, info)
		default:
			err = f.buildForward(ctx, g, cam, info)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// hooks declares the window-sized targets. Shadow and culling targets are
// declared by the build functions every frame since they follow the scene
// and the builder options rather than the window.
func (f *forward) hooks(ctx *Context) window.Hooks {
	declare := func(id, width, height uint32) {
		declareWindowTargets(ctx, id, width, height)
	}
	return window.HookFuncs{Init: declare, Update: declare}
}

func (f *forward) buildEditor(g *graph.Builder, cam camera.Camera, info *window.Info) error {
	mainLight := graph.LightBinding{Light: cam.Scene().MainLight()}
	pass, err := g.AddRenderPass(info.Width, info.Height, "default")
	if err != nil {
		return err
	}
	pass.SetViewport(cam.Viewport().Scale(info.Width, info.Height))
	addCameraTargets(pass, cam, resource.ColorName(info.ID), resource.DepthStencilName(info.ID))
	pass.AddQueue(graph.QueueHintNone, "opaque").AddScene(cam, graph.SceneOpaque|graph.SceneMask, mainLight)
	pass.AddQueue(graph.QueueHintBlend, "blend").AddScene(cam, graph.SceneBlend, mainLight)
	return nil
}

func (f *forward) buildForward(ctx *Context, g *graph.Builder, cam camera.Camera, info *window.Info) error {
	s := cam.Scene()
	id, width, height := info.ID, info.Width, info.Height
	main := s.MainLight()
	settings := s.Shadows()
	shadows := f.shadows && settings.Enabled

	var lights lighting.Result
	if f.lighting {
		lights = lighting.Cull(s, cam.Frustum())
	}
	if shadows {
		declareShadowTargets(ctx, id, settings.Size)
	}
	if !shadows && len(lights.Shadow) > 0 {
		lights.Inline = append(lights.Inline, lights.Shadow...)
		lights.Shadow = nil
	}

	csm := shadows && main != nil && main.CastsShadows()
	if csm {
		if _, err := lighting.AddCascadedShadowPass(g, id, main, cam, settings, ctx.FlipY()); err != nil {
			return err
		}
	}

	pass, err := g.AddRenderPass(width, height, "default")
	if err != nil {
		return err
	}
	pass.SetName("ForwardPass").SetViewport(cam.Viewport().Scale(width, height))
	addCameraTargets(pass, cam, resource.ColorName(id), resource.DepthStencilName(id))
	if csm {
		pass.AddTexture(resource.ShadowMapName(id), "cc_shadowMap")
	}
	pass.AddQueue(graph.QueueHintNone, "opaque").
		AddScene(cam, graph.SceneOpaque|graph.SceneMask, graph.LightBinding{Light: main})

	last, err := lighting.AddLightPasses(g, id, width, height, cam, settings.Size, pass, lights)
	if err != nil {
		return err
	}
	last.AddQueue(graph.QueueHintBlend, "blend").
		AddScene(cam, graph.SceneBlend|graph.SceneUI, graph.LightBinding{Light: main})
	return nil
}

// buildGPUDriven emits the two-phase occlusion culling frame of one camera.
// The main pass culls against last frame's Hi-Z and renders into this
// frame's depth, which is reduced into this frame's Hi-Z. The post pass
// re-tests what the main pass rejected against that fresh Hi-Z, draws the
// survivors plus transparent geometry and rebuilds the Hi-Z for next frame.
func (f *forward) buildGPUDriven(ctx *Context, g *graph.Builder, cam camera.Camera, info *window.Info) error {
	id, width, height := info.ID, info.Width, info.Height
	parity := ctx.FrameParity()
	depth := resource.ParityDepthName(id, parity)
	prevHiZ := resource.HiZName(id, parity^1)
	hiz := resource.HiZName(id, parity)
	color := resource.ColorName(id)
	vp := cam.Viewport().Scale(width, height)
	declareCullingTargets(ctx, id, width, height)

	mainID := ctx.NextCullingID()
	if err := g.AddCullingPass(mainID, cam, prevHiZ, true); err != nil {
		return err
	}
	pass, err := g.AddRenderPass(width, height, "default")
	if err != nil {
		return err
	}
	pass.SetName("GPUDrivenMainPass").SetViewport(vp)
	addCameraTargets(pass, cam, color, depth)
	pass.AddQueue(graph.QueueHintNone, "gpu-driven").AddCulledScene(cam, graph.SceneOpaque|graph.SceneMask, mainID)
	pass.AddQueue(graph.QueueHintNone, "opaque").AddScene(cam, graph.SceneOpaque|graph.SceneMask, graph.LightBinding{})
	if err := g.AddHiZPass(depth, hiz); err != nil {
		return err
	}

	postID := ctx.NextCullingID()
	if err := g.AddCullingPass(postID, cam, hiz, false); err != nil {
		return err
	}
	post, err := g.AddRenderPass(width, height, "default")
	if err != nil {
		return err
	}
	post.SetName("GPUDrivenPostPass").SetViewport(vp).
		AddRenderTarget(color, graph.LoadOpLoad, graph.StoreOpStore, cam.ClearColor()).
		AddDepthStencil(depth, graph.LoadOpLoad, graph.StoreOpStore, cam.ClearDepth(), cam.ClearStencil())
	post.AddQueue(graph.QueueHintNone, "gpu-driven").AddCulledScene(cam, graph.SceneOpaque|graph.SceneMask, postID)
	post.AddQueue(graph.QueueHintBlend, "blend").AddScene(cam, graph.SceneBlend, graph.LightBinding{})
	return g.AddHiZPass(depth, hiz)
}
