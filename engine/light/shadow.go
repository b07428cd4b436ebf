package light

// ShadowMapResolution is the default width and height in texels of a shadow
// map. Scenes use it unless configured otherwise.
const ShadowMapResolution = 2048

// CSMLevel is the number of cascades a directional light's shadow map is
// split into.
type CSMLevel int

const (
	CSMLevel1 CSMLevel = 1
	CSMLevel2 CSMLevel = 2
	CSMLevel3 CSMLevel = 3
	CSMLevel4 CSMLevel = 4
)

// ShadowConfig holds the cascaded shadow settings of a directional light.
type ShadowConfig struct {
	// Level is the requested cascade count.
	Level CSMLevel

	// FixedArea renders a single shadow map over a fixed world area instead
	// of cascades fitted to the camera frustum.
	FixedArea bool

	// Distance is the far bound of the last cascade in world units.
	Distance float32
}

// DefaultShadowConfig returns four cascades over 100 world units.
func DefaultShadowConfig() ShadowConfig {
	return ShadowConfig{
		Level:    CSMLevel4,
		Distance: 100,
	}
}

// Cascades returns the cascade count clamped to [1, 4].
func (c ShadowConfig) Cascades() int {
	return max(min(int(c.Level), int(CSMLevel4)), int(CSMLevel1))
}

// FullMap reports whether every cascade renders over the whole shadow map
// instead of a 2x2 tile.
func (c ShadowConfig) FullMap() bool {
	return c.FixedArea || c.Level <= CSMLevel1
}
