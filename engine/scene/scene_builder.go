package scene

import "github.com/Carmen-Shannon/oxy-framegraph/engine/light"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLights adds initial lights in order. The first directional light
// becomes the main light unless WithMainLight is also given.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			s.AddLight(l)
		}
	}
}

// WithMainLight sets the directional main light explicitly.
//
// Parameters:
//   - l: a directional light
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMainLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.SetMainLight(l)
	}
}

// WithShadows sets the shadow settings. A zero Size keeps the default.
//
// Parameters:
//   - settings: the shadow settings
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadows(settings ShadowSettings) SceneBuilderOption {
	return func(s *scene) {
		if settings.Size == 0 {
			settings.Size = s.shadows.Size
		}
		s.shadows = settings
	}
}

// WithAmbientColor sets the ambient light color.
func WithAmbientColor(r, g, b float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambient = [3]float32{r, g, b}
	}
}
