package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// FormatFeature is a bitset of what a device can do with a texture format.
type FormatFeature uint32

const (
	FormatFeatureRenderTarget FormatFeature = 1 << iota
	FormatFeatureSampledTexture
	FormatFeatureStorage

	FormatFeatureNone FormatFeature = 0
)

// Has reports whether all bits of other are set.
func (f FormatFeature) Has(other FormatFeature) bool {
	return f&other == other
}

// Device is the capability query builders use to pick formats.
type Device interface {
	// FormatFeatures returns the supported uses of a texture format.
	//
	// Parameters:
	//   - format: the texture format to query
	//
	// Returns:
	//   - FormatFeature: the supported uses, FormatFeatureNone if unknown
	FormatFeatures(format wgpu.TextureFormat) FormatFeature
}

// StaticDevice answers capability queries from a fixed table. Hosts fill it
// from the adapter at startup; tests use it directly.
type StaticDevice map[wgpu.TextureFormat]FormatFeature

var _ Device = StaticDevice{}

func (d StaticDevice) FormatFeatures(format wgpu.TextureFormat) FormatFeature {
	return d[format]
}

// DefaultDevice reports the formats every WebGPU adapter must support.
// R32Float is renderable but not filterable-sampled everywhere, so it is
// left out and shadow maps fall back to RGBA8Unorm.
func DefaultDevice() StaticDevice {
	all := FormatFeatureRenderTarget | FormatFeatureSampledTexture
	return StaticDevice{
		wgpu.TextureFormatRGBA8Unorm:          all | FormatFeatureStorage,
		wgpu.TextureFormatBGRA8Unorm:          all,
		wgpu.TextureFormatRGBA16Float:         all | FormatFeatureStorage,
		wgpu.TextureFormatDepth24PlusStencil8: all,
		wgpu.TextureFormatDepth32Float:        all,
	}
}

// ShadowFormat returns R32Float when the device can both render to and sample
// it, otherwise RGBA8Unorm.
//
// Parameters:
//   - d: the device, nil means no optional features
//
// Returns:
//   - wgpu.TextureFormat: the shadow map color format
func ShadowFormat(d Device) wgpu.TextureFormat {
	if d != nil && d.FormatFeatures(wgpu.TextureFormatR32Float).Has(FormatFeatureRenderTarget|FormatFeatureSampledTexture) {
		return wgpu.TextureFormatR32Float
	}
	return wgpu.TextureFormatRGBA8Unorm
}
