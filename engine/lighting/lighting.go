// Package lighting culls scene lights against a camera and emits the extra
// queues and passes multi-light forward shading needs.
package lighting

import (
	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/light"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/scene"
)

// Result is the outcome of culling one camera's lights.
type Result struct {
	// Inline lights are shaded by one additive blend queue each inside the
	// current forward pass.
	Inline []light.Light

	// Shadow lights are spot lights with shadows enabled. Each costs a shadow
	// pass plus a forward pass that samples it.
	Shadow []light.Light
}

// Len returns the number of visible lights.
func (r Result) Len() int {
	return len(r.Inline) + len(r.Shadow)
}

// Cull tests every runtime light of s against f. Lights are visited by
// category (spot, sphere, point, ranged directional) and keep scene order
// within a category, so shadow pass assignment is stable across frames.
// Baked and disabled lights are always dropped.
//
// Parameters:
//   - s: the scene to enumerate
//   - f: the camera frustum
//
// Returns:
//   - Result: the visible lights split by shading path
func Cull(s scene.Scene, f common.Frustum) Result {
	var r Result
	if s == nil {
		return r
	}
	for _, l := range s.SpotLights() {
		if !runtime(l) || !f.IntersectsSphere(l.Bounds()) {
			continue
		}
		if l.CastsShadows() {
			r.Shadow = append(r.Shadow, l)
		} else {
			r.Inline = append(r.Inline, l)
		}
	}
	for _, group := range [][]light.Light{s.SphereLights(), s.PointLights()} {
		for _, l := range group {
			if runtime(l) && f.IntersectsSphere(l.Bounds()) {
				r.Inline = append(r.Inline, l)
			}
		}
	}
	for _, l := range s.RangedDirLights() {
		if runtime(l) && f.IntersectsAABB(l.Box()) {
			r.Inline = append(r.Inline, l)
		}
	}
	return r
}

func runtime(l light.Light) bool {
	return l != nil && l.Enabled() && !l.Baked()
}

// QueueLabel returns the debug label of the blend queue shading one light.
func QueueLabel(t light.LightType) string {
	switch t {
	case light.LightTypeSphere:
		return "sphere-light"
	case light.LightTypeSpot:
		return "spot-light"
	case light.LightTypePoint:
		return "point-light"
	case light.LightTypeRangedDirectional:
		return "ranged-directional-light"
	default:
		return "forward-add"
	}
}
