package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption configures a Light during NewLight.
type LightBuilderOption func(*lightImpl)

// WithPosition places the light in world space.
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithDirection sets the light direction. The vector is normalized; a zero
// vector leaves the default (straight down).
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		if d := normalize3(x, y, z); d != (mgl32.Vec3{}) {
			l.direction = d
		}
	}
}

// WithScale sets the box size of a ranged directional light. The culling box
// spans Scale units along each local axis.
//
// Parameters:
//   - x, y, z: box size along the light's local axes
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithScale(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.scale = mgl32.Vec3{x, y, z}
	}
}

// WithColor sets the RGB color of the light.
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity sets the scalar intensity multiplier.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the attenuation distance, which is also the culling radius
// of point, sphere and spot lights.
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSize sets the emitter radius of a sphere light.
func WithSize(size float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.size = size
	}
}

// WithSpotCone sets the inner and outer cone half-angles of a spot light.
// Angles are given in degrees and stored as cosines.
//
// Parameters:
//   - innerDeg: inner cone half-angle in degrees
//   - outerDeg: outer cone half-angle in degrees
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithSpotCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.innerCone = cosDeg(innerDeg)
		l.outerCone = cosDeg(outerDeg)
	}
}

// WithEnabled sets whether the light takes part in rendering.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithBaked marks the light as baked into lightmaps.
func WithBaked(baked bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.baked = baked
	}
}

// WithCastsShadows enables shadow mapping for the light.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithShadowConfig sets the cascaded shadow settings of a directional light.
//
// Parameters:
//   - config: cascade level, fixed area flag and distance
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithShadowConfig(config ShadowConfig) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow = config
	}
}

func normalize3(x, y, z float32) mgl32.Vec3 {
	v := mgl32.Vec3{x, y, z}
	if v.Len() == 0 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}
