package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// boxFrustum covers the cube [-10, 10]^3 in view space.
func boxFrustum() Frustum {
	m := mgl32.Ortho(-10, 10, -10, 10, -10, 10)
	return ExtractFrustumFromMatrix(m[:])
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := boxFrustum()
	tests := []struct {
		name   string
		sphere Sphere
		want   bool
	}{
		{"center", Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}, true},
		{"straddles right plane", Sphere{Center: mgl32.Vec3{10.5, 0, 0}, Radius: 1}, true},
		{"outside right", Sphere{Center: mgl32.Vec3{50, 0, 0}, Radius: 1}, false},
		{"outside far", Sphere{Center: mgl32.Vec3{0, 0, -40}, Radius: 5}, false},
		{"outside top", Sphere{Center: mgl32.Vec3{0, 30, 0}, Radius: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IntersectsSphere(tt.sphere); got != tt.want {
				t.Errorf("IntersectsSphere(%v) = %v, want %v", tt.sphere, got, tt.want)
			}
		})
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	f := boxFrustum()
	unit := AABB{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}}

	inside := unit.Transform(mgl32.Translate3D(2, 2, 2))
	if !f.IntersectsAABB(inside) {
		t.Errorf("IntersectsAABB(%v) = false, want true", inside)
	}
	outside := unit.Transform(mgl32.Translate3D(0, -25, 0))
	if f.IntersectsAABB(outside) {
		t.Errorf("IntersectsAABB(%v) = true, want false", outside)
	}
	// A large scale pulls the box back into view across the boundary.
	scaled := unit.Transform(mgl32.Translate3D(0, -25, 0).Mul4(mgl32.Scale3D(40, 40, 40)))
	if !f.IntersectsAABB(scaled) {
		t.Errorf("IntersectsAABB(%v) = false, want true", scaled)
	}
}

func TestAABBTransformRotation(t *testing.T) {
	box := AABB{HalfExtents: mgl32.Vec3{2, 1, 1}}
	got := box.Transform(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	want := mgl32.Vec3{1, 2, 1}
	if !got.HalfExtents.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Transform().HalfExtents = %v, want %v", got.HalfExtents, want)
	}
}
