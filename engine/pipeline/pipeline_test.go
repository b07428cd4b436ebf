package pipeline

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/asset"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/light"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/scene"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type testWindow struct {
	handle window.Handle
	width  int
	height int
	fb     window.FramebufferID
}

func (w *testWindow) Handle() window.Handle { return w.handle }
func (w *testWindow) Width() int { return w.width }
func (w *testWindow) Height() int { return w.height }
func (w *testWindow) Framebuffer() window.FramebufferID { return w.fb }

func newTestCamera(win window.Window, s scene.Scene, options ...camera.CameraBuilderOption) camera.Camera {
	opts := append([]camera.CameraBuilderOption{camera.WithScene(s), camera.WithWindow(win)}, options...)
	return camera.NewCamera(opts...)
}

func mustSetup(t *testing.T, ctx *Context, b Builder, cameras ...camera.Camera) *graph.FrameGraph {
	t.Helper()
	fg, err := ctx.Setup(cameras, b)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return fg
}

func testAssets(names ...string) asset.Loader {
	l := asset.NewLoader()
	for _, name := range names {
		l.Register(&asset.Material{Name: name, Passes: 1, ComputeEntries: 1})
	}
	return l
}

func TestForwardEndToEnd(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional, light.WithCastsShadows(false))
	s := scene.NewScene("main", scene.WithLights(sun))
	cam := newTestCamera(&testWindow{handle: 1, width: 1920, height: 1080, fb: 1}, s)

	ctx := NewContext()
	fg := mustSetup(t, ctx, NewForward(), cam)

	passes := fg.Passes()
	if len(passes) != 1 {
		t.Fatalf("len(Passes()) = %d, want 1", len(passes))
	}
	p := passes[0]
	if p.Kind != graph.PassRender || p.Width != 1920 || p.Height != 1080 {
		t.Errorf("pass = %v %dx%d, want render 1920x1080", p.Kind, p.Width, p.Height)
	}
	if len(p.Queues) != 2 {
		t.Fatalf("len(Queues) = %d, want 2", len(p.Queues))
	}
	if q := p.Queues[0]; q.Hint != graph.QueueHintNone || !q.Scenes[0].Flags.Has(graph.SceneOpaque|graph.SceneMask) {
		t.Errorf("Queues[0] = %v %v, want unordered opaque and mask", q.Hint, q.Scenes[0].Flags)
	}
	if q := p.Queues[1]; q.Hint != graph.QueueHintBlend || !q.Scenes[0].Flags.Has(graph.SceneBlend) {
		t.Errorf("Queues[1] = %v %v, want blend", q.Hint, q.Scenes[0].Flags)
	}
	for _, a := range p.Attachments {
		if a.Load != graph.LoadOpClear {
			t.Errorf("attachment %s load = %v, want clear", a.Name, a.Load)
		}
	}
	if len(p.Attachments) != 2 {
		t.Errorf("len(Attachments) = %d, want color and depth", len(p.Attachments))
	}
	if st := fg.Stats(); st.Passes != 1 || st.Hazards != 0 {
		t.Errorf("Stats() = %+v, want one pass and no hazards", st)
	}
}

func TestForwardShadows(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional, light.WithCastsShadows(true))
	spot := light.NewLight(light.LightTypeSpot, light.WithRange(2), light.WithCastsShadows(true))
	point := light.NewLight(light.LightTypePoint, light.WithRange(2))

	tests := []struct {
		name      string
		settings  scene.ShadowSettings
		options   []ForwardBuilderOption
		wantNames []string
	}{
		{
			name:      "shadows enabled",
			settings:  scene.ShadowSettings{Enabled: true, Size: 1024, CSMSupported: true},
			wantNames: []string{"CSM", "ForwardPass", "SpotlightShadowPass", "SpotlightWithShadowMap"},
		},
		{
			name:      "scene shadows disabled",
			settings:  scene.ShadowSettings{Size: 1024},
			wantNames: []string{"ForwardPass"},
		},
		{
			name:      "builder shadows disabled",
			settings:  scene.ShadowSettings{Enabled: true, Size: 1024},
			options:   []ForwardBuilderOption{WithShadows(false)},
			wantNames: []string{"ForwardPass"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewScene("lit", scene.WithLights(sun, spot, point), scene.WithShadows(tt.settings))
			cam := newTestCamera(&testWindow{handle: 1, width: 640, height: 480, fb: 1}, s)

			fg := mustSetup(t, NewContext(), NewForward(tt.options...), cam)
			passes := fg.Passes()
			if len(passes) != len(tt.wantNames) {
				t.Fatalf("len(Passes()) = %d, want %d", len(passes), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if passes[i].Name != name {
					t.Errorf("Passes()[%d].Name = %q, want %q", i, passes[i].Name, name)
				}
			}
			if n := len(fg.Hazards()); n != 0 {
				t.Errorf("Hazards() = %v, want none", fg.Hazards())
			}
		})
	}
}

func TestForwardShadowedForwardPass(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional, light.WithCastsShadows(true))
	s := scene.NewScene("csm", scene.WithLights(sun),
		scene.WithShadows(scene.ShadowSettings{Enabled: true, Size: 512, CSMSupported: true}))
	cam := newTestCamera(&testWindow{handle: 1, width: 640, height: 480, fb: 1}, s)

	ctx := NewContext()
	fg := mustSetup(t, ctx, NewForward(), cam)

	csm := fg.Passes()[0]
	if csm.Width != 512 || len(csm.Queues) != 4 {
		t.Errorf("CSM pass = %dx%d with %d queues, want 512x512 with 4", csm.Width, csm.Height, len(csm.Queues))
	}
	fwd := fg.Passes()[1]
	if len(fwd.Textures) != 1 || fwd.Textures[0].Slot != "cc_shadowMap" {
		t.Errorf("ForwardPass textures = %+v, want the shadow map as cc_shadowMap", fwd.Textures)
	}
	desc, ok := ctx.Registry().Get("ShadowMap0")
	if !ok || desc.Width != 512 || desc.Format != wgpu.TextureFormatRGBA8Unorm {
		t.Errorf("ShadowMap0 = %+v, want 512 RGBA8Unorm", desc)
	}
}

func TestForwardClearFlags(t *testing.T) {
	tests := []struct {
		name      string
		flags     camera.ClearFlag
		wantColor graph.LoadOp
		wantDepth graph.LoadOp
	}{
		{"clear all", camera.ClearAll, graph.LoadOpClear, graph.LoadOpClear},
		{"none", camera.ClearNone, graph.LoadOpLoad, graph.LoadOpLoad},
		{"skybox", camera.ClearSkybox | camera.ClearDepth, graph.LoadOpClear, graph.LoadOpClear},
		{"stencil only", camera.ClearStencil, graph.LoadOpLoad, graph.LoadOpClear},
		{"color only", camera.ClearColor, graph.LoadOpClear, graph.LoadOpLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewScene("flags")
			cam := newTestCamera(&testWindow{handle: 1, width: 64, height: 64, fb: 1}, s, camera.WithClearFlags(tt.flags))
			fg := mustSetup(t, NewContext(), NewForward(), cam)

			atts := fg.Passes()[0].Attachments
			if atts[0].Load != tt.wantColor {
				t.Errorf("color load = %v, want %v", atts[0].Load, tt.wantColor)
			}
			if atts[1].Load != tt.wantDepth {
				t.Errorf("depth load = %v, want %v", atts[1].Load, tt.wantDepth)
			}
		})
	}
}

func TestForwardEditorPath(t *testing.T) {
	spot := light.NewLight(light.LightTypePoint, light.WithRange(2))
	s := scene.NewScene("editor", scene.WithLights(spot))
	win := &testWindow{handle: 1, width: 64, height: 64, fb: 1}

	tests := []struct {
		name       string
		usage      camera.Usage
		options    []ForwardBuilderOption
		wantQueues int
	}{
		{"editor camera", camera.UsageEditor, nil, 2},
		{"preview camera", camera.UsagePreview, nil, 2},
		{"game camera", camera.UsageGame, nil, 3},
		{"editor path off", camera.UsageEditor, []ForwardBuilderOption{WithEditorPath(false)}, 3},
		{"lighting off", camera.UsageGame, []ForwardBuilderOption{WithLighting(false)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera(win, s, camera.WithUsage(tt.usage))
			fg := mustSetup(t, NewContext(), NewForward(tt.options...), cam)
			if got := fg.Stats().Queues; got != tt.wantQueues {
				t.Errorf("Stats().Queues = %d, want %d", got, tt.wantQueues)
			}
		})
	}
}

func TestSetupSkipsInvalidCameras(t *testing.T) {
	s := scene.NewScene("skip")
	cameras := []camera.Camera{
		nil,
		camera.NewCamera(camera.WithWindow(&testWindow{handle: 1, width: 64, height: 64})),
		camera.NewCamera(camera.WithScene(s)),
		newTestCamera(&testWindow{handle: 2}, s),
	}
	ctx := NewContext()
	fg, err := ctx.Setup(cameras, NewForward())
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if n := len(fg.Passes()); n != 0 {
		t.Errorf("len(Passes()) = %d, want 0", n)
	}
	if n := ctx.Registry().Len(); n != 0 {
		t.Errorf("Registry().Len() = %d, want 0 for an unconfigured window", n)
	}
}

func TestSetupNilBuilder(t *testing.T) {
	if _, err := NewContext().Setup(nil, nil); !errors.Is(err, ErrNilBuilder) {
		t.Errorf("Setup(nil) error = %v, want ErrNilBuilder", err)
	}
}

func TestSetupBuilderError(t *testing.T) {
	boom := errors.New("boom")
	ctx := NewContext()
	fg, err := ctx.Setup(nil, BuilderFunc(func(*Context, *graph.Builder, []camera.Camera) error {
		return boom
	}))
	if fg != nil || !errors.Is(err, boom) {
		t.Errorf("Setup() = %v, %v, want nil, boom", fg, err)
	}
	if ctx.FrameParity() != 1 || ctx.Frame() != 1 {
		t.Errorf("FrameParity() = %d, Frame() = %d, want 1, 1", ctx.FrameParity(), ctx.Frame())
	}
}

func TestWindowResizeUpdatesResources(t *testing.T) {
	win := &testWindow{handle: 1, width: 800, height: 600, fb: 1}
	cam := newTestCamera(win, scene.NewScene("resize"))
	ctx := NewContext()
	b := NewForward()

	mustSetup(t, ctx, b, cam)
	win.width, win.height = 1024, 768
	mustSetup(t, ctx, b, cam)

	for _, name := range []string{"Color0", "DepthStencil0"} {
		desc, ok := ctx.Registry().Get(name)
		if !ok || desc.Width != 1024 || desc.Height != 768 {
			t.Errorf("%s = %dx%d, want 1024x768", name, desc.Width, desc.Height)
		}
	}
}

func TestMinimizedWindowSkipsCamera(t *testing.T) {
	win := &testWindow{handle: 1, width: 800, height: 600, fb: 1}
	cam := newTestCamera(win, scene.NewScene("minimize"))
	ctx := NewContext()
	b := NewForward()
	mustSetup(t, ctx, b, cam)

	win.width, win.height = 0, 0
	fg := mustSetup(t, ctx, b, cam)
	for _, p := range fg.Passes() {
		if p.Width == 0 || p.Height == 0 {
			t.Errorf("pass %q has extent %dx%d while minimized", p.Name, p.Width, p.Height)
		}
	}
	if n := len(fg.Passes()); n != 0 {
		t.Errorf("len(Passes()) = %d while minimized, want 0", n)
	}
	if desc, _ := ctx.Registry().Get("Color0"); desc.Width != 800 || desc.Height != 600 {
		t.Errorf("Color0 = %dx%d while minimized, want 800x600", desc.Width, desc.Height)
	}

	win.width, win.height = 800, 600
	fg = mustSetup(t, ctx, b, cam)
	if len(fg.Passes()) == 0 || fg.Passes()[0].Width != 800 {
		t.Errorf("Passes() after restore = %+v, want an 800 wide forward pass", fg.Passes())
	}
	if info, _ := ctx.Cache().ByID(0); !info.Configured() {
		t.Error("window lost its configuration across a minimize")
	}
}

func TestDescriptorConflictIsFatal(t *testing.T) {
	ctx := NewContext()
	if _, err := resource.DeclareRenderTarget(ctx.Registry(), "Color0", WindowColorFormat, 640, 480, resource.Managed); err != nil {
		t.Fatalf("DeclareRenderTarget() error = %v", err)
	}
	cam := newTestCamera(&testWindow{handle: 1, width: 640, height: 480, fb: 1}, scene.NewScene("conflict"))

	fg, err := ctx.Setup([]camera.Camera{cam}, NewForward())
	if fg != nil || !errors.Is(err, resource.ErrDescriptorConflict) || !errors.Is(err, ErrDeclarationFailed) {
		t.Fatalf("Setup() = %v, %v, want nil and a descriptor conflict", fg, err)
	}
	if _, err := ctx.Setup([]camera.Camera{cam}, NewForward()); !errors.Is(err, ErrContextBroken) ||
		!errors.Is(err, resource.ErrDescriptorConflict) {
		t.Errorf("next Setup() error = %v, want ErrContextBroken", err)
	}
	if ctx.Frame() != 1 {
		t.Errorf("Frame() = %d, want 1 after a refused frame", ctx.Frame())
	}
}

func TestForwardFollowsRuntimeChanges(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional, light.WithCastsShadows(true))
	s := scene.NewScene("runtime", scene.WithLights(sun),
		scene.WithShadows(scene.ShadowSettings{Enabled: true, Size: 512, CSMSupported: true}))
	cam := newTestCamera(&testWindow{handle: 1, width: 640, height: 480, fb: 1}, s)
	ctx := NewContext()
	mustSetup(t, ctx, NewForward(), cam)

	s.SetShadows(scene.ShadowSettings{Enabled: true, Size: 2048, CSMSupported: true})
	mustSetup(t, ctx, NewForward(), cam)
	for _, name := range []string{"ShadowMap0", "ShadowDepth0"} {
		if desc, _ := ctx.Registry().Get(name); desc.Width != 2048 || desc.Height != 2048 {
			t.Errorf("%s = %dx%d, want 2048x2048", name, desc.Width, desc.Height)
		}
	}

	fg := mustSetup(t, ctx, NewForward(WithGPUDriven(true)), cam)
	if n := len(fg.PassesOf(graph.PassCulling)); n != 2 {
		t.Errorf("culling passes = %d, want 2 after enabling GPU-driven culling", n)
	}
	for _, name := range []string{"DepthStencil0_0", "DepthStencil0_1", "HiZBuffer0_0", "HiZBuffer0_1"} {
		if !ctx.Registry().Contains(name) {
			t.Errorf("%s not declared", name)
		}
	}
}

func TestGPUDrivenDoubleBuffering(t *testing.T) {
	cam := newTestCamera(&testWindow{handle: 1, width: 256, height: 128, fb: 1}, scene.NewScene("gpu"))
	ctx := NewContext()
	b := NewForward(WithGPUDriven(true))

	want := []struct {
		depth, prevHiZ, hiz string
	}{
		{"DepthStencil0_0", "HiZBuffer0_1", "HiZBuffer0_0"},
		{"DepthStencil0_1", "HiZBuffer0_0", "HiZBuffer0_1"},
		{"DepthStencil0_0", "HiZBuffer0_1", "HiZBuffer0_0"},
	}
	for frame, w := range want {
		fg := mustSetup(t, ctx, b, cam)
		passes := fg.Passes()
		kinds := []graph.PassKind{graph.PassCulling, graph.PassRender, graph.PassHiZ, graph.PassCulling, graph.PassRender, graph.PassHiZ}
		if len(passes) != len(kinds) {
			t.Fatalf("frame %d: len(Passes()) = %d, want %d", frame, len(passes), len(kinds))
		}
		for i, k := range kinds {
			if passes[i].Kind != k {
				t.Errorf("frame %d: Passes()[%d].Kind = %v, want %v", frame, i, passes[i].Kind, k)
			}
		}
		if got := passes[0].Textures[0].Name; got != w.prevHiZ {
			t.Errorf("frame %d: main culling reads %s, want %s", frame, got, w.prevHiZ)
		}
		if got := passes[1].Attachments[1].Name; got != w.depth {
			t.Errorf("frame %d: main depth = %s, want %s", frame, got, w.depth)
		}
		if passes[2].HiZSource != w.depth || passes[2].HiZTarget != w.hiz {
			t.Errorf("frame %d: hiz pass %s -> %s, want %s -> %s", frame, passes[2].HiZSource, passes[2].HiZTarget, w.depth, w.hiz)
		}
		if got := passes[3].Textures[0].Name; got != w.hiz {
			t.Errorf("frame %d: post culling reads %s, want %s", frame, got, w.hiz)
		}
		if post := passes[4].Attachments; post[0].Load != graph.LoadOpLoad || post[1].Load != graph.LoadOpLoad {
			t.Errorf("frame %d: post pass loads = %v %v, want load", frame, post[0].Load, post[1].Load)
		}
		if n := len(fg.Hazards()); n != 0 {
			t.Errorf("frame %d: Hazards() = %v, want none", frame, fg.Hazards())
		}
	}
}

func TestGPUDrivenCullingIDs(t *testing.T) {
	s := scene.NewScene("gpu")
	cameras := []camera.Camera{
		newTestCamera(&testWindow{handle: 1, width: 64, height: 64, fb: 1}, s),
		newTestCamera(&testWindow{handle: 2, width: 64, height: 64, fb: 2}, s),
	}
	ctx := NewContext()
	b := NewForward(WithGPUDriven(true))

	for frame := range 2 {
		fg := mustSetup(t, ctx, b, cameras...)
		var ids []uint32
		for _, p := range fg.PassesOf(graph.PassCulling) {
			ids = append(ids, p.CullingID)
		}
		want := []uint32{0, 1, 2, 3}
		if len(ids) != len(want) {
			t.Fatalf("frame %d: culling ids = %v, want %v", frame, ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("frame %d: culling ids = %v, want %v", frame, ids, want)
				break
			}
		}
		for _, p := range fg.PassesOf(graph.PassRender) {
			if id := p.Queues[0].Scenes[0].CullingID; !p.Queues[0].Scenes[0].HasCullingID || id > 3 {
				t.Errorf("frame %d: pass %s gpu-driven queue culling id = %d", frame, p.Name, id)
			}
		}
	}
}

func TestSubpassBuilder(t *testing.T) {
	tests := []struct {
		name        string
		assets      asset.Loader
		wantHazards int
		wantDraws   int
	}{
		{"materials loaded", testAssets(SubpassMaterial0, SubpassMaterial1, SubpassMaterial2), 0, 3},
		{"materials missing", nil, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(WithAssets(tt.assets))
			cam := newTestCamera(&testWindow{handle: 1, width: 320, height: 240, fb: 1}, scene.NewScene("subpass"))
			fg := mustSetup(t, ctx, NewSubpass(), cam)

			st := fg.Stats()
			if st.RenderPasses != 1 || st.Subpasses != 3 || st.CopyPasses != 1 {
				t.Errorf("Stats() = %+v, want 1 render pass, 3 sub-passes, 1 copy", st)
			}
			if st.Hazards != tt.wantHazards || st.Draws != tt.wantDraws {
				t.Errorf("Stats() hazards = %d draws = %d, want %d and %d", st.Hazards, st.Draws, tt.wantHazards, tt.wantDraws)
			}
			for _, h := range fg.Hazards() {
				if !errors.Is(h, graph.ErrMissingAsset) {
					t.Errorf("hazard %v, want ErrMissingAsset", h)
				}
			}
		})
	}
}

func TestCubemapBuilder(t *testing.T) {
	ctx := NewContext(WithAssets(testAssets(CubemapSampleMaterial)))
	cam := newTestCamera(&testWindow{handle: 1, width: 300, height: 200, fb: 1}, scene.NewScene("cube"))
	fg := mustSetup(t, ctx, NewCubemap(), cam)

	st := fg.Stats()
	if st.RenderPasses != 12 || st.MovePasses != 3 || st.Hazards != 0 {
		t.Errorf("Stats() = %+v, want 12 render passes, 3 move passes, no hazards", st)
	}
	aliases := fg.Aliases()["CubeArray0"]
	if len(aliases) != 2 || aliases[1].FirstSlice != 3 || aliases[1].NumSlices != 3 {
		t.Errorf("Aliases()[CubeArray0] = %+v, want two 3 slice halves", aliases)
	}

	render := fg.PassesOf(graph.PassRender)
	last := render[len(render)-1]
	if last.Textures[0].Layer != 5 {
		t.Errorf("last sample pass layer = %d, want 5", last.Textures[0].Layer)
	}
	vp := last.Queues[0].Viewport
	if vp.X != 200 || vp.Y != 100 || vp.Width != 100 || vp.Height != 100 {
		t.Errorf("last sample viewport = %+v, want {200 100 100 100}", vp)
	}
	if render[6].Attachments[0].Load != graph.LoadOpClear || render[7].Attachments[0].Load != graph.LoadOpLoad {
		t.Error("only the first sample pass clears the window")
	}
}

func TestComputeBuilder(t *testing.T) {
	tests := []struct {
		name      string
		options   []ComputeBuilderOption
		wantKinds []graph.PassKind
	}{
		{"swizzle", nil, []graph.PassKind{graph.PassCompute, graph.PassRender}},
		{"copy out", []ComputeBuilderOption{WithCopyOut(true)}, []graph.PassKind{graph.PassCompute, graph.PassCopy}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(WithAssets(testAssets(ComputeMaterial, SwizzleMaterial)))
			cam := newTestCamera(&testWindow{handle: 1, width: 320, height: 240, fb: 1}, scene.NewScene("compute"))
			fg := mustSetup(t, ctx, NewCompute(tt.options...), cam)

			passes := fg.Passes()
			if len(passes) != len(tt.wantKinds) {
				t.Fatalf("len(Passes()) = %d, want %d", len(passes), len(tt.wantKinds))
			}
			for i, k := range tt.wantKinds {
				if passes[i].Kind != k {
					t.Errorf("Passes()[%d].Kind = %v, want %v", i, passes[i].Kind, k)
				}
			}
			d := passes[0].Queues[0].Dispatches[0]
			if d.X != 40 || d.Y != 60 || d.Z != 1 {
				t.Errorf("dispatch = %dx%dx%d, want 40x60x1", d.X, d.Y, d.Z)
			}
			if n := len(fg.Hazards()); n != 0 {
				t.Errorf("Hazards() = %v, want none", fg.Hazards())
			}
		})
	}
}

func TestShadowFormat(t *testing.T) {
	tests := []struct {
		name string
		dev  Device
		want wgpu.TextureFormat
	}{
		{"nil device", nil, wgpu.TextureFormatRGBA8Unorm},
		{"default device", DefaultDevice(), wgpu.TextureFormatRGBA8Unorm},
		{"render only", StaticDevice{wgpu.TextureFormatR32Float: FormatFeatureRenderTarget}, wgpu.TextureFormatRGBA8Unorm},
		{"render and sample", StaticDevice{wgpu.TextureFormatR32Float: FormatFeatureRenderTarget | FormatFeatureSampledTexture}, wgpu.TextureFormatR32Float},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShadowFormat(tt.dev); got != tt.want {
				t.Errorf("ShadowFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilderRegistry(t *testing.T) {
	const name = "forward-registry-test"
	t.Cleanup(func() { unregister(name) })

	b := NewForward()
	if err := Register(name, b); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := Register(name, NewSubpass()); !errors.Is(err, ErrBuilderExists) {
		t.Errorf("second Register() error = %v, want ErrBuilderExists", err)
	}
	if err := Register("nil-builder", nil); !errors.Is(err, ErrNilBuilder) {
		t.Errorf("Register(nil) error = %v, want ErrNilBuilder", err)
	}
	got, ok := Lookup(name)
	if !ok || got != b {
		t.Errorf("Lookup(%q) = %v, %v, want the registered builder", name, got, ok)
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("Lookup(missing) ok = true, want false")
	}
}
