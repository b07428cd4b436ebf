package lighting

import (
	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/light"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// shadowClear is the shadow map clear color: farthest depth in every channel.
var shadowClear = wgpu.Color{R: 1, G: 1, B: 1, A: 1}

const shadowCasterFlags = graph.SceneOpaque | graph.SceneMask | graph.SceneShadowCaster

// AddLightPasses shades the culled lights of one camera.
//
// Inline lights get one additive blend queue each on pass, in result order.
// Each shadow light then gets a SpotlightShadowPass rendering ShadowMap{id}
// from the light, followed by a SpotlightWithShadowMap pass that loads the
// window's color and depth and draws one blend queue sampling the map.
//
// Parameters:
//   - g: the frame graph builder
//   - id: window id
//   - width, height: window size in pixels
//   - cam: the camera being rendered
//   - shadowSize: shadow map size in texels
//   - pass: the open forward pass
//   - r: the culled lights
//
// Returns:
//   - *graph.RenderPassBuilder: the last forward pass, still open
//   - error: ErrGraphSealed if the builder is sealed
func AddLightPasses(g *graph.Builder, id, width, height uint32, cam camera.Camera, shadowSize uint32, pass *graph.RenderPassBuilder, r Result) (*graph.RenderPassBuilder, error) {
	for _, l := range r.Inline {
		pass.AddQueue(graph.QueueHintBlend, QueueLabel(l.Type())).
			AddScene(cam, graph.SceneBlend, graph.LightBinding{Light: l})
	}

	for _, l := range r.Shadow {
		shadowPass, err := g.AddRenderPass(shadowSize, shadowSize, "default")
		if err != nil {
			return pass, err
		}
		shadowPass.SetName("SpotlightShadowPass").
			AddRenderTarget(resource.ShadowMapName(id), graph.LoadOpClear, graph.StoreOpStore, shadowClear).
			AddDepthStencil(resource.ShadowDepthName(id), graph.LoadOpClear, graph.StoreOpDiscard, 1, 0)
		shadowPass.AddQueue(graph.QueueHintNone, "shadow-caster").
			AddScene(cam, shadowCasterFlags, graph.LightBinding{Light: l, CulledByLight: true})

		pass, err = g.AddRenderPass(width, height, "default")
		if err != nil {
			return pass, err
		}
		pass.SetName("SpotlightWithShadowMap").
			AddRenderTarget(resource.ColorName(id), graph.LoadOpLoad, graph.StoreOpStore, wgpu.Color{}).
			AddDepthStencil(resource.DepthStencilName(id), graph.LoadOpLoad, graph.StoreOpStore, 1, 0).
			AddTexture(resource.ShadowMapName(id), "cc_spotShadowMap")
		pass.AddQueue(graph.QueueHintBlend, "forward-add").
			AddScene(cam, graph.SceneBlend, graph.LightBinding{Light: l})
	}
	return pass, nil
}

// MainLightViewport returns the shadow map tile of one cascade. Cascades
// tile the map 2x2 in level order; a single cascade or a fixed area uses the
// whole map. flipY selects a bottom-up tile order for devices whose screen
// space Y points up.
//
// Parameters:
//   - l: the directional main light
//   - width, height: shadow map size in texels
//   - level: cascade index
//   - flipY: true when screen space Y points up
//
// Returns:
//   - common.Rect: the tile in texels, at least 1x1
func MainLightViewport(l light.Light, width, height uint32, level int, flipY bool) common.Rect {
	w, h := float32(width), float32(height)
	var vp common.Rect
	if l.Shadow().FullMap() {
		vp = common.Rect{Width: trunc(w), Height: trunc(h)}
	} else {
		row := float32(level / 2)
		if flipY {
			row = 1 - row
		}
		vp = common.Rect{
			X:      trunc(float32(level%2) * 0.5 * w),
			Y:      trunc(row * 0.5 * h),
			Width:  trunc(0.5 * w),
			Height: trunc(0.5 * h),
		}
	}
	vp.X = max(0, vp.X)
	vp.Y = max(0, vp.Y)
	vp.Width = max(1, vp.Width)
	vp.Height = max(1, vp.Height)
	return vp
}

// AddCascadedShadowPass renders the main light's cascades into
// ShadowMap{id}, one shadow-caster queue per cascade, each confined to its
// tile. Devices without CSM support get one cascade.
//
// Parameters:
//   - g: the frame graph builder
//   - id: window id
//   - l: the directional main light
//   - cam: the camera whose frustum the cascades fit
//   - settings: scene shadow settings
//   - flipY: true when screen space Y points up
//
// Returns:
//   - *graph.RenderPassBuilder: the CSM pass
//   - error: ErrGraphSealed if the builder is sealed
func AddCascadedShadowPass(g *graph.Builder, id uint32, l light.Light, cam camera.Camera, settings scene.ShadowSettings, flipY bool) (*graph.RenderPassBuilder, error) {
	size := settings.Size
	pass, err := g.AddRenderPass(size, size, "default")
	if err != nil {
		return nil, err
	}
	pass.SetName("CSM").
		AddRenderTarget(resource.ShadowMapName(id), graph.LoadOpClear, graph.StoreOpStore, shadowClear).
		AddDepthStencil(resource.ShadowDepthName(id), graph.LoadOpClear, graph.StoreOpDiscard, 1, 0)

	levels := 1
	if settings.CSMSupported {
		levels = l.Shadow().Cascades()
	}
	for level := range levels {
		pass.AddQueue(graph.QueueHintNone, "shadow-caster").
			SetViewport(MainLightViewport(l, size, size, level, flipY)).
			AddScene(cam, shadowCasterFlags, graph.LightBinding{Light: l, Level: level, CulledByLight: true})
	}
	return pass, nil
}

func trunc(v float32) float32 {
	return float32(int64(v))
}
