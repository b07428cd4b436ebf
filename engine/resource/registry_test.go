package resource

import (
	"errors"
	"slices"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestDeclareCreateThenUpdate(t *testing.T) {
	r := NewRegistry()

	created, err := DeclareRenderTarget(r, "Color0", wgpu.TextureFormatBGRA8Unorm, 800, 600, Managed)
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if !created {
		t.Errorf("Declare() created = false, want true on first declaration")
	}

	created, err = DeclareRenderTarget(r, "Color0", wgpu.TextureFormatBGRA8Unorm, 1024, 768, Managed)
	if err != nil {
		t.Fatalf("Declare() resize error = %v", err)
	}
	if created {
		t.Errorf("Declare() created = true, want false on update")
	}

	got, ok := r.Get("Color0")
	if !ok {
		t.Fatalf("Get(Color0) missing")
	}
	if got.Width != 1024 || got.Height != 768 {
		t.Errorf("Get(Color0) size = %dx%d, want 1024x768", got.Width, got.Height)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestDeclareKindConflict(t *testing.T) {
	r := NewRegistry()
	if _, err := DeclareRenderTarget(r, "Shared", wgpu.TextureFormatRGBA8Unorm, 64, 64, Managed); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	_, err := DeclareDepthStencil(r, "Shared", wgpu.TextureFormatDepth24PlusStencil8, 64, 64, Managed)
	if !errors.Is(err, ErrDescriptorConflict) {
		t.Fatalf("Declare() error = %v, want ErrDescriptorConflict", err)
	}

	got, _ := r.Get("Shared")
	if got.Kind != KindRenderTarget {
		t.Errorf("Get(Shared).Kind = %v, want %v (unchanged)", got.Kind, KindRenderTarget)
	}
}

func TestDeclareResidencyUpdate(t *testing.T) {
	r := NewRegistry()
	if _, err := DeclareRenderTarget(r, "Tile", wgpu.TextureFormatRGBA16Float, 64, 64, Managed); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if _, err := DeclareRenderTarget(r, "Tile", wgpu.TextureFormatRGBA16Float, 64, 64, Memoryless); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	got, _ := r.Get("Tile")
	if got.Residency != Memoryless {
		t.Errorf("Get(Tile).Residency = %v, want Memoryless", got.Residency)
	}
}

func TestDeclareInvalid(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
	}{
		{"empty name", Descriptor{Kind: KindRenderTarget, Width: 1, Height: 1}},
		{"zero texture", Descriptor{Name: "T", Kind: KindRenderTarget}},
		{"zero buffer", Descriptor{Name: "B", Kind: KindStorageBuffer}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if _, err := r.Declare(tt.desc); !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("Declare() error = %v, want ErrInvalidDescriptor", err)
			}
			if r.Len() != 0 {
				t.Errorf("Len() = %d, want 0", r.Len())
			}
		})
	}
}

func TestRenderWindowAlwaysPersistent(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Declare(Descriptor{
		Name: "Window0", Kind: KindRenderWindow, Width: 8, Height: 8, Residency: Managed,
	}); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	got, _ := r.Get("Window0")
	if got.Residency != Persistent {
		t.Errorf("Residency = %v, want Persistent", got.Residency)
	}
}

func TestChangeCallback(t *testing.T) {
	var creates, updates int
	r := NewRegistry(WithChangeCallback(func(_ Descriptor, created bool) {
		if created {
			creates++
		} else {
			updates++
		}
	}))

	DeclareStorageBuffer(r, "Visibility", 256, Managed)
	DeclareStorageBuffer(r, "Visibility", 256, Managed)
	DeclareStorageBuffer(r, "Visibility", 512, Managed)

	if creates != 1 || updates != 1 {
		t.Errorf("callbacks = (%d creates, %d updates), want (1, 1)", creates, updates)
	}
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"b", "c", "a"} {
		DeclareUniformBuffer(r, name, 16, Persistent)
	}
	if got, want := r.Names(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if !r.Contains("a") || r.Contains("z") {
		t.Errorf("Contains() mismatch")
	}
}
