// Package resource holds the named GPU resource descriptors a frame graph reads
// and writes. The registry only records metadata; backing memory is allocated by
// the executor from the descriptor's residency.
package resource

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrDescriptorConflict is returned when a name is re-declared with a
	// different kind.
	ErrDescriptorConflict = errors.New("resource: descriptor conflict")

	// ErrInvalidDescriptor is returned for descriptors without a name or with a
	// zero size for their kind.
	ErrInvalidDescriptor = errors.New("resource: invalid descriptor")
)

// Kind identifies what a named resource is.
type Kind int

const (
	KindRenderTarget Kind = iota
	KindDepthStencil
	KindStorageTexture
	KindStorageBuffer
	KindUniformBuffer
	KindTextureArraySlice

	// KindRenderWindow is the swapchain color target of a window. It is always
	// Persistent.
	KindRenderWindow
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindRenderTarget:
		return "RenderTarget"
	case KindDepthStencil:
		return "DepthStencil"
	case KindStorageTexture:
		return "StorageTexture"
	case KindStorageBuffer:
		return "StorageBuffer"
	case KindUniformBuffer:
		return "UniformBuffer"
	case KindTextureArraySlice:
		return "TextureArraySlice"
	case KindRenderWindow:
		return "RenderWindow"
	default:
		return "Unknown"
	}
}

// IsBuffer reports whether the kind is backed by a buffer rather than a texture.
func (k Kind) IsBuffer() bool {
	return k == KindStorageBuffer || k == KindUniformBuffer
}

// Residency is the memory lifetime class of a resource.
type Residency int

const (
	// Persistent resources survive across frames. Contents written in one frame
	// are readable in the next.
	Persistent Residency = iota

	// Managed resources are pooled by the executor and live only as long as the
	// graph accesses them.
	Managed

	// Memoryless resources never leave tile memory of the pass that writes them.
	Memoryless
)

// String returns the string representation of Residency.
func (r Residency) String() string {
	switch r {
	case Persistent:
		return "Persistent"
	case Managed:
		return "Managed"
	case Memoryless:
		return "Memoryless"
	default:
		return "Unknown"
	}
}

// Flag describes how the executor may bind a resource.
type Flag uint32

const (
	FlagColorAttachment Flag = 1 << iota
	FlagDepthStencilAttachment
	FlagSampled
	FlagStorage
	FlagInputAttachment
	FlagTransferSrc
	FlagTransferDst
)

// Has reports whether all bits of other are set.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// Descriptor is the metadata of one named resource.
//
// Textures use Format, Width, Height, Depth, ArrayLayers and MipLevels.
// Buffers use Size only.
type Descriptor struct {
	Name        string
	Kind        Kind
	Format      wgpu.TextureFormat
	Width       uint32
	Height      uint32
	Depth       uint32
	ArrayLayers uint32
	MipLevels   uint32
	Size        uint64
	Residency   Residency
	Flags       Flag
}

// Layers returns the number of array layers, treating 0 as 1.
func (d Descriptor) Layers() uint32 {
	return max(d.ArrayLayers, 1)
}

// Mips returns the number of mip levels, treating 0 as 1.
func (d Descriptor) Mips() uint32 {
	return max(d.MipLevels, 1)
}

// normalized fills the implied defaults so stored descriptors compare equal
// regardless of how they were declared.
func (d Descriptor) normalized() Descriptor {
	if d.Kind.IsBuffer() {
		return d
	}
	d.Depth = max(d.Depth, 1)
	d.ArrayLayers = d.Layers()
	d.MipLevels = d.Mips()
	if d.Kind == KindRenderWindow {
		d.Residency = Persistent
	}
	return d
}
