// Package light models the scene lights the frame graph culls and shades.
package light

import (
	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for the scene's main light. Never culled.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to Range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// The only kind that may get a dedicated shadow pass.
	LightTypeSpot

	// LightTypeSphere represents a point-like light with a physical emitter
	// radius. Culled like a point light.
	LightTypeSphere

	// LightTypeRangedDirectional represents a directional light confined to an
	// oriented box. Its volume is the unit cube scaled and placed by WorldMatrix.
	LightTypeRangedDirectional
)

// String returns the string representation of LightType.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	case LightTypeSphere:
		return "sphere"
	case LightTypeRangedDirectional:
		return "ranged-directional"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     mgl32.Vec3
	direction    mgl32.Vec3
	scale        mgl32.Vec3
	color        mgl32.Vec3
	intensity    float32
	lightRange   float32
	size         float32
	innerCone    float32 // stored as cos(angle in radians)
	outerCone    float32 // stored as cos(angle in radians)
	enabled      bool
	baked        bool
	castsShadows bool
	shadow       ShadowConfig
}

// Light defines the interface for a light source in the scene.
//
// All light types share this interface; type-specific properties (e.g. cone
// angles for spot lights) return zero values or defaults when not applicable.
type Light interface {
	// Type returns the kind of light source.
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	Position() mgl32.Vec3

	// Direction returns the normalized direction of the light.
	// For spot lights this is the cone axis. Meaningless for point and sphere lights.
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light.
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// Range returns the maximum attenuation distance for point, sphere and
	// spot lights. It is also the radius of their culling sphere.
	Range() float32

	// Size returns the emitter radius of a sphere light.
	Size() float32

	// InnerCone returns the cosine of the inner cone half-angle for spot lights.
	InnerCone() float32

	// OuterCone returns the cosine of the outer cone half-angle for spot lights.
	OuterCone() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are dropped by culling.
	Enabled() bool

	// Baked returns whether the light's contribution is baked into lightmaps.
	// Baked lights never get a runtime pass.
	Baked() bool

	// CastsShadows returns whether this light is eligible for shadow map
	// generation. For spot lights this routes the light to a dedicated
	// shadow pass instead of inline shading.
	CastsShadows() bool

	// Shadow returns the shadow map settings of a directional main light.
	Shadow() ShadowConfig

	// WorldMatrix returns the light's model matrix: translation to Position,
	// rotation of -Z onto Direction, then the box scale. Ranged directional
	// lights transform their unit culling box with it.
	WorldMatrix() mgl32.Mat4

	// Bounds returns the culling sphere of a point-like light.
	//
	// Returns:
	//   - common.Sphere: sphere at Position with radius Range
	Bounds() common.Sphere

	// Box returns the world-space culling box of a ranged directional light.
	//
	// Returns:
	//   - common.AABB: the half-extent 0.5 unit box transformed by WorldMatrix
	Box() common.AABB

	// SetPosition sets the world-space position of the light.
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	SetDirection(x, y, z float32)

	// SetRange sets the maximum attenuation distance.
	SetRange(lightRange float32)

	// SetEnabled enables or disables the light for rendering.
	SetEnabled(enabled bool)

	// SetBaked marks the light as baked.
	SetBaked(baked bool)

	// SetCastsShadows sets whether the light is eligible for shadow mapping.
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  mgl32.Vec3{0, -1, 0},
		scale:      mgl32.Vec3{1, 1, 1},
		color:      mgl32.Vec3{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		size:       0.15,
		innerCone:  0.9063, // cos(25°)
		outerCone:  0.8192, // cos(35°)
		enabled:    true,
		shadow:     DefaultShadowConfig(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Size() float32 {
	return l.size
}

func (l *lightImpl) InnerCone() float32 {
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	return l.outerCone
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) Baked() bool {
	return l.baked
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) Shadow() ShadowConfig {
	return l.shadow
}

func (l *lightImpl) WorldMatrix() mgl32.Mat4 {
	rot := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, -1}, l.direction).Mat4()
	return mgl32.Translate3D(l.position.X(), l.position.Y(), l.position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(l.scale.X(), l.scale.Y(), l.scale.Z()))
}

func (l *lightImpl) Bounds() common.Sphere {
	return common.Sphere{Center: l.position, Radius: l.lightRange}
}

func (l *lightImpl) Box() common.AABB {
	unit := common.AABB{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}}
	return unit.Transform(l.WorldMatrix())
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetBaked(baked bool) {
	l.baked = baked
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}
