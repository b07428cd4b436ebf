package resource

import "github.com/cogentcore/webgpu/wgpu"

// TextureDescriptor translates a texture resource into the descriptor the
// executor passes to Device.CreateTexture. Buffers and memoryless resources
// have no texture and return nil.
//
// Parameters:
//   - desc: the resource descriptor
//
// Returns:
//   - *wgpu.TextureDescriptor: the device descriptor, or nil
func TextureDescriptor(desc Descriptor) *wgpu.TextureDescriptor {
	if desc.Kind.IsBuffer() || desc.Residency == Memoryless {
		return nil
	}
	desc = desc.normalized()

	depthOrLayers := desc.ArrayLayers
	dimension := wgpu.TextureDimension2D
	if desc.Depth > 1 {
		depthOrLayers = desc.Depth
		dimension = wgpu.TextureDimension3D
	}

	return &wgpu.TextureDescriptor{
		Label: desc.Name,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: depthOrLayers,
		},
		MipLevelCount: desc.MipLevels,
		SampleCount:   1,
		Dimension:     dimension,
		Format:        desc.Format,
		Usage:         textureUsage(desc),
	}
}

// BufferDescriptor translates a buffer resource into the descriptor the
// executor passes to Device.CreateBuffer. Textures return nil.
//
// Parameters:
//   - desc: the resource descriptor
//
// Returns:
//   - *wgpu.BufferDescriptor: the device descriptor, or nil
func BufferDescriptor(desc Descriptor) *wgpu.BufferDescriptor {
	if !desc.Kind.IsBuffer() {
		return nil
	}
	usage := wgpu.BufferUsageCopyDst
	switch desc.Kind {
	case KindStorageBuffer:
		usage |= wgpu.BufferUsageStorage
	case KindUniformBuffer:
		usage |= wgpu.BufferUsageUniform
	}
	if desc.Flags.Has(FlagTransferSrc) {
		usage |= wgpu.BufferUsageCopySrc
	}
	return &wgpu.BufferDescriptor{
		Label: desc.Name,
		Size:  desc.Size,
		Usage: usage,
	}
}

// textureUsage derives usage bits from the kind first, then adds what the
// flags request on top.
func textureUsage(desc Descriptor) wgpu.TextureUsage {
	var usage wgpu.TextureUsage
	switch desc.Kind {
	case KindRenderTarget, KindRenderWindow, KindTextureArraySlice, KindDepthStencil:
		usage |= wgpu.TextureUsageRenderAttachment
	case KindStorageTexture:
		usage |= wgpu.TextureUsageStorageBinding
	}
	if desc.Flags.Has(FlagColorAttachment) || desc.Flags.Has(FlagDepthStencilAttachment) {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	if desc.Flags.Has(FlagSampled) {
		usage |= wgpu.TextureUsageTextureBinding
	}
	if desc.Flags.Has(FlagStorage) {
		usage |= wgpu.TextureUsageStorageBinding
	}
	if desc.Flags.Has(FlagTransferSrc) {
		usage |= wgpu.TextureUsageCopySrc
	}
	if desc.Flags.Has(FlagTransferDst) {
		usage |= wgpu.TextureUsageCopyDst
	}
	// Move targets receive their layers by copy when the device cannot alias.
	if desc.Kind == KindTextureArraySlice {
		usage |= wgpu.TextureUsageCopyDst
	}
	return usage
}
