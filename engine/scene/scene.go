// Package scene holds the light and shadow state a camera renders. Drawables are
// culled by the executor's scene collaborator; the frame graph only needs the
// lights and the shadow settings.
package scene

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-framegraph/engine/light"
)

// ShadowSettings are the scene-wide shadow switches.
type ShadowSettings struct {
	// Enabled turns on shadow passes for the main light and shadowed spot lights.
	Enabled bool

	// Size is the width and height of each shadow map in texels.
	Size uint32

	// CSMSupported reports whether the device can render more than one cascade.
	// When false the main light gets a single cascade.
	CSMSupported bool
}

// scene is the implementation of the Scene interface.
type scene struct {
	name      string
	lights    []light.Light
	mainLight light.Light
	shadows   ShadowSettings
	ambient   [3]float32
}

// Scene defines the light enumeration consumed by light culling.
//
// The per-kind accessors return lights in the order they were added. That
// order is stable across frames, which keeps shadow pass assignment stable.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// AddLight appends a light. A directional light becomes the main light if
	// none is set.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight removes a light. Removing the main light clears it.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// Lights returns every light in insertion order.
	Lights() []light.Light

	// SpotLights returns spot lights in insertion order.
	SpotLights() []light.Light

	// SphereLights returns sphere lights in insertion order.
	SphereLights() []light.Light

	// PointLights returns point lights in insertion order.
	PointLights() []light.Light

	// RangedDirLights returns ranged directional lights in insertion order.
	RangedDirLights() []light.Light

	// MainLight returns the directional main light, or nil.
	MainLight() light.Light

	// SetMainLight replaces the main light. It must be directional or nil.
	//
	// Parameters:
	//   - l: the new main light
	SetMainLight(l light.Light)

	// Shadows returns the shadow settings.
	Shadows() ShadowSettings

	// SetShadows replaces the shadow settings. A zero Size keeps the current
	// map size.
	SetShadows(settings ShadowSettings)

	// AmbientColor returns the ambient term used by the lit passes.
	AmbientColor() [3]float32
}

var _ Scene = &scene{}

// NewScene creates a scene with shadows disabled and a default shadow map size.
//
// Parameters:
//   - name: the scene name
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		name: name,
		shadows: ShadowSettings{
			Size:         light.ShadowMapResolution,
			CSMSupported: true,
		},
		ambient: [3]float32{0.1, 0.1, 0.1},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.lights = append(s.lights, l)
	if s.mainLight == nil && l.Type() == light.LightTypeDirectional {
		s.mainLight = l
	}
}

func (s *scene) RemoveLight(l light.Light) {
	s.lights = slices.DeleteFunc(s.lights, func(other light.Light) bool {
		return other == l
	})
	if s.mainLight == l {
		s.mainLight = nil
	}
}

func (s *scene) Lights() []light.Light {
	return slices.Clone(s.lights)
}

func (s *scene) SpotLights() []light.Light {
	return s.ofType(light.LightTypeSpot)
}

func (s *scene) SphereLights() []light.Light {
	return s.ofType(light.LightTypeSphere)
}

func (s *scene) PointLights() []light.Light {
	return s.ofType(light.LightTypePoint)
}

func (s *scene) RangedDirLights() []light.Light {
	return s.ofType(light.LightTypeRangedDirectional)
}

func (s *scene) MainLight() light.Light {
	return s.mainLight
}

func (s *scene) SetMainLight(l light.Light) {
	if l != nil && l.Type() != light.LightTypeDirectional {
		return
	}
	s.mainLight = l
}

func (s *scene) Shadows() ShadowSettings {
	return s.shadows
}

func (s *scene) SetShadows(settings ShadowSettings) {
	if settings.Size == 0 {
		settings.Size = s.shadows.Size
	}
	s.shadows = settings
}

func (s *scene) AmbientColor() [3]float32 {
	return s.ambient
}

func (s *scene) ofType(t light.LightType) []light.Light {
	var out []light.Light
	for _, l := range s.lights {
		if l.Type() == t {
			out = append(out, l)
		}
	}
	return out
}
