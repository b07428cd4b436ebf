package lighting

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/graph"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/light"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/resource"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

func testRegistry(t *testing.T) resource.Registry {
	t.Helper()
	r := resource.NewRegistry()
	must := func(_ bool, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Declare() error = %v", err)
		}
	}
	must(resource.DeclareRenderWindow(r, resource.ColorName(0), wgpu.TextureFormatBGRA8Unorm, 320, 240))
	must(resource.DeclareDepthStencil(r, resource.DepthStencilName(0), wgpu.TextureFormatDepth24PlusStencil8, 320, 240, resource.Persistent))
	must(resource.DeclareRenderTarget(r, resource.ShadowMapName(0), wgpu.TextureFormatR32Float, 1024, 1024, resource.Managed))
	must(resource.DeclareDepthStencil(r, resource.ShadowDepthName(0), wgpu.TextureFormatDepth24PlusStencil8, 1024, 1024, resource.Managed))
	return r
}

func TestCull(t *testing.T) {
	visibleSpot := light.NewLight(light.LightTypeSpot, light.WithPosition(0, 0, 0), light.WithRange(2))
	shadowSpot := light.NewLight(light.LightTypeSpot, light.WithPosition(1, 0, 0), light.WithRange(2), light.WithCastsShadows(true))
	sphere := light.NewLight(light.LightTypeSphere, light.WithPosition(0, 1, 0), light.WithRange(1))
	farSphere := light.NewLight(light.LightTypeSphere, light.WithPosition(0, 0, 500), light.WithRange(1))
	point := light.NewLight(light.LightTypePoint, light.WithPosition(0, -1, 0), light.WithRange(1))
	baked := light.NewLight(light.LightTypePoint, light.WithPosition(0, 0, 0), light.WithRange(1), light.WithBaked(true))
	disabled := light.NewLight(light.LightTypePoint, light.WithPosition(0, 0, 0), light.WithRange(1), light.WithEnabled(false))
	box := light.NewLight(light.LightTypeRangedDirectional, light.WithPosition(0, 0, 0))
	farBox := light.NewLight(light.LightTypeRangedDirectional, light.WithPosition(0, 0, -500))

	s := scene.NewScene("cull", scene.WithLights(
		farBox, box, disabled, baked, point, farSphere, sphere, shadowSpot, visibleSpot,
	))
	cam := camera.NewCamera(camera.WithScene(s))

	r := Cull(s, cam.Frustum())

	wantInline := []light.Light{visibleSpot, sphere, point, box}
	if len(r.Inline) != len(wantInline) {
		t.Fatalf("len(Inline) = %d, want %d", len(r.Inline), len(wantInline))
	}
	for i, l := range wantInline {
		if r.Inline[i] != l {
			t.Errorf("Inline[%d] = %v light, want %v light", i, r.Inline[i].Type(), l.Type())
		}
	}
	if len(r.Shadow) != 1 || r.Shadow[0] != shadowSpot {
		t.Errorf("Shadow = %v, want the shadowed spot light only", r.Shadow)
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
}

func TestCullNilScene(t *testing.T) {
	if r := Cull(nil, common.Frustum{}); r.Len() != 0 {
		t.Errorf("Cull(nil).Len() = %d, want 0", r.Len())
	}
}

func TestQueueLabel(t *testing.T) {
	tests := []struct {
		t    light.LightType
		want string
	}{
		{light.LightTypeSphere, "sphere-light"},
		{light.LightTypeSpot, "spot-light"},
		{light.LightTypePoint, "point-light"},
		{light.LightTypeRangedDirectional, "ranged-directional-light"},
		{light.LightTypeDirectional, "forward-add"},
	}
	for _, tt := range tests {
		if got := QueueLabel(tt.t); got != tt.want {
			t.Errorf("QueueLabel(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestAddLightPasses(t *testing.T) {
	g := graph.New(testRegistry(t))
	cam := camera.NewCamera()

	forward, err := g.AddRenderPass(320, 240, "default")
	if err != nil {
		t.Fatalf("AddRenderPass() error = %v", err)
	}
	forward.SetName("ForwardPass").
		AddRenderTarget(resource.ColorName(0), graph.LoadOpClear, graph.StoreOpStore, wgpu.Color{A: 1}).
		AddDepthStencil(resource.DepthStencilName(0), graph.LoadOpClear, graph.StoreOpStore, 1, 0)

	point := light.NewLight(light.LightTypePoint, light.WithRange(1))
	spot := light.NewLight(light.LightTypeSpot, light.WithRange(1), light.WithCastsShadows(true))
	last, err := AddLightPasses(g, 0, 320, 240, cam, 1024, forward, Result{
		Inline: []light.Light{point},
		Shadow: []light.Light{spot},
	})
	if err != nil {
		t.Fatalf("AddLightPasses() error = %v", err)
	}
	if last == forward {
		t.Fatal("AddLightPasses() returned the forward pass, want the shadow-sampling pass")
	}
	last.AddQueue(graph.QueueHintBlend, "").AddScene(cam, graph.SceneBlend|graph.SceneUI, graph.LightBinding{})

	fg, err := g.Seal()
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if n := len(fg.Hazards()); n != 0 {
		t.Errorf("len(Hazards()) = %d, want 0: %v", n, fg.Hazards())
	}

	passes := fg.Passes()
	wantNames := []string{"ForwardPass", "SpotlightShadowPass", "SpotlightWithShadowMap"}
	if len(passes) != len(wantNames) {
		t.Fatalf("len(Passes()) = %d, want %d", len(passes), len(wantNames))
	}
	for i, name := range wantNames {
		if passes[i].Name != name {
			t.Errorf("Passes()[%d].Name = %q, want %q", i, passes[i].Name, name)
		}
	}

	fwdQueues := passes[0].Queues
	if len(fwdQueues) != 1 || fwdQueues[0].Name != "point-light" || fwdQueues[0].Hint != graph.QueueHintBlend {
		t.Errorf("forward queues = %+v, want one blend point-light queue", fwdQueues)
	}

	shadow := passes[1]
	if shadow.Width != 1024 || shadow.Height != 1024 {
		t.Errorf("shadow pass size = %dx%d, want 1024x1024", shadow.Width, shadow.Height)
	}
	if len(shadow.Queues) != 1 {
		t.Fatalf("len(shadow.Queues) = %d, want 1", len(shadow.Queues))
	}
	caster := shadow.Queues[0].Scenes[0]
	if !caster.Flags.Has(graph.SceneShadowCaster) || !caster.Light.CulledByLight || caster.Light.Light != spot {
		t.Errorf("shadow scene = %+v, want a shadow caster draw culled by the spot light", caster)
	}

	sampling := passes[2]
	if len(sampling.Textures) != 1 || sampling.Textures[0].Slot != "cc_spotShadowMap" {
		t.Errorf("sampling textures = %+v, want ShadowMap0 as cc_spotShadowMap", sampling.Textures)
	}
	for _, a := range sampling.Attachments {
		if a.Load != graph.LoadOpLoad {
			t.Errorf("attachment %s load = %v, want load", a.Name, a.Load)
		}
	}
	if len(sampling.Queues) != 2 || sampling.Queues[0].Name != "forward-add" {
		t.Errorf("sampling queues = %d, want forward-add plus the caller's blend queue", len(sampling.Queues))
	}
}

func TestMainLightViewport(t *testing.T) {
	cascaded := light.NewLight(light.LightTypeDirectional, light.WithShadowConfig(light.ShadowConfig{Level: light.CSMLevel4}))
	fixed := light.NewLight(light.LightTypeDirectional, light.WithShadowConfig(light.ShadowConfig{Level: light.CSMLevel4, FixedArea: true}))
	single := light.NewLight(light.LightTypeDirectional, light.WithShadowConfig(light.ShadowConfig{Level: light.CSMLevel1}))

	tests := []struct {
		name  string
		l     light.Light
		level int
		flipY bool
		want  common.Rect
	}{
		{"level 0", cascaded, 0, false, common.Rect{X: 0, Y: 0, Width: 512, Height: 512}},
		{"level 1", cascaded, 1, false, common.Rect{X: 512, Y: 0, Width: 512, Height: 512}},
		{"level 2", cascaded, 2, false, common.Rect{X: 0, Y: 512, Width: 512, Height: 512}},
		{"level 3", cascaded, 3, false, common.Rect{X: 512, Y: 512, Width: 512, Height: 512}},
		{"level 0 flipped", cascaded, 0, true, common.Rect{X: 0, Y: 512, Width: 512, Height: 512}},
		{"level 3 flipped", cascaded, 3, true, common.Rect{X: 512, Y: 0, Width: 512, Height: 512}},
		{"fixed area", fixed, 2, false, common.Rect{Width: 1024, Height: 1024}},
		{"single cascade", single, 0, true, common.Rect{Width: 1024, Height: 1024}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MainLightViewport(tt.l, 1024, 1024, tt.level, tt.flipY); got != tt.want {
				t.Errorf("MainLightViewport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMainLightViewportMinimumSize(t *testing.T) {
	l := light.NewLight(light.LightTypeDirectional, light.WithShadowConfig(light.ShadowConfig{Level: light.CSMLevel4}))
	got := MainLightViewport(l, 1, 1, 3, false)
	if got.Width != 1 || got.Height != 1 {
		t.Errorf("MainLightViewport(1x1) size = %vx%v, want 1x1", got.Width, got.Height)
	}
}

func TestAddCascadedShadowPass(t *testing.T) {
	l := light.NewLight(light.LightTypeDirectional, light.WithShadowConfig(light.ShadowConfig{Level: light.CSMLevel4}))
	cam := camera.NewCamera()

	tests := []struct {
		name       string
		supported  bool
		wantQueues int
	}{
		{"csm supported", true, 4},
		{"csm unsupported", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New(testRegistry(t))
			settings := scene.ShadowSettings{Enabled: true, Size: 1024, CSMSupported: tt.supported}
			pass, err := AddCascadedShadowPass(g, 0, l, cam, settings, false)
			if err != nil {
				t.Fatalf("AddCascadedShadowPass() error = %v", err)
			}
			p := pass.Pass()
			if p.Name != "CSM" || p.Width != 1024 || p.Height != 1024 {
				t.Errorf("pass = %q %dx%d, want CSM 1024x1024", p.Name, p.Width, p.Height)
			}
			if len(p.Queues) != tt.wantQueues {
				t.Fatalf("len(Queues) = %d, want %d", len(p.Queues), tt.wantQueues)
			}
			for i, q := range p.Queues {
				if !q.HasViewport {
					t.Errorf("queue %d has no viewport", i)
				}
				if lvl := q.Scenes[0].Light.Level; lvl != i {
					t.Errorf("queue %d light level = %d, want %d", i, lvl, i)
				}
			}
			if _, err := g.Seal(); err != nil {
				t.Errorf("Seal() error = %v", err)
			}
		})
	}
}
