package resource

import "github.com/cogentcore/webgpu/wgpu"

// Helpers for the common resource shapes. Each returns the same values as
// Registry.Declare.

// DeclareRenderWindow declares the swapchain color target of a window.
func DeclareRenderWindow(r Registry, name string, format wgpu.TextureFormat, width, height uint32) (bool, error) {
	return r.Declare(Descriptor{
		Name:      name,
		Kind:      KindRenderWindow,
		Format:    format,
		Width:     width,
		Height:    height,
		Residency: Persistent,
		Flags:     FlagColorAttachment | FlagTransferDst,
	})
}

// DeclareRenderTarget declares a sampled 2D color target.
func DeclareRenderTarget(r Registry, name string, format wgpu.TextureFormat, width, height uint32, residency Residency) (bool, error) {
	flags := FlagColorAttachment | FlagSampled
	if residency == Memoryless {
		flags = FlagColorAttachment | FlagInputAttachment
	}
	return r.Declare(Descriptor{
		Name:      name,
		Kind:      KindRenderTarget,
		Format:    format,
		Width:     width,
		Height:    height,
		Residency: residency,
		Flags:     flags,
	})
}

// DeclareDepthStencil declares a 2D depth-stencil target.
func DeclareDepthStencil(r Registry, name string, format wgpu.TextureFormat, width, height uint32, residency Residency) (bool, error) {
	flags := FlagDepthStencilAttachment | FlagSampled
	if residency == Memoryless {
		flags = FlagDepthStencilAttachment | FlagInputAttachment
	}
	return r.Declare(Descriptor{
		Name:      name,
		Kind:      KindDepthStencil,
		Format:    format,
		Width:     width,
		Height:    height,
		Residency: residency,
		Flags:     flags,
	})
}

// DeclareStorageTexture declares a texture written by compute passes.
func DeclareStorageTexture(r Registry, name string, format wgpu.TextureFormat, width, height, mips uint32, residency Residency) (bool, error) {
	return r.Declare(Descriptor{
		Name:      name,
		Kind:      KindStorageTexture,
		Format:    format,
		Width:     width,
		Height:    height,
		MipLevels: mips,
		Residency: residency,
		Flags:     FlagStorage | FlagSampled | FlagTransferSrc,
	})
}

// DeclareStorageBuffer declares a read-write buffer.
func DeclareStorageBuffer(r Registry, name string, size uint64, residency Residency) (bool, error) {
	return r.Declare(Descriptor{
		Name:      name,
		Kind:      KindStorageBuffer,
		Size:      size,
		Residency: residency,
		Flags:     FlagStorage | FlagTransferDst,
	})
}

// DeclareUniformBuffer declares a uniform buffer.
func DeclareUniformBuffer(r Registry, name string, size uint64, residency Residency) (bool, error) {
	return r.Declare(Descriptor{
		Name:      name,
		Kind:      KindUniformBuffer,
		Size:      size,
		Residency: residency,
		Flags:     FlagTransferDst,
	})
}

// DeclareTextureArray declares a layered render target that move passes can
// merge single-layer targets into.
func DeclareTextureArray(r Registry, name string, format wgpu.TextureFormat, width, height, layers uint32, residency Residency) (bool, error) {
	return r.Declare(Descriptor{
		Name:        name,
		Kind:        KindTextureArraySlice,
		Format:      format,
		Width:       width,
		Height:      height,
		ArrayLayers: layers,
		Residency:   residency,
		Flags:       FlagColorAttachment | FlagSampled,
	})
}
