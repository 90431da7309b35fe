package culling

import (
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Scale(0.5).Length()
}

// Sphere returns the bounding sphere as center.xyz + radius.
func (b AABB) Sphere() math.Vec4 {
	return b.Center().Vec4(b.Radius())
}

// IsEmpty reports whether the box has no volume or was never grown.
func (b AABB) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// Union returns the smallest box containing both boxes. Empty boxes are ignored.
func (b AABB) Union(other AABB) AABB {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// EmptyAABB returns a box that any Union replaces.
func EmptyAABB() AABB {
	return AABB{Min: math.Vec3{X: 1, Y: 1, Z: 1}, Max: math.Vec3{X: -1, Y: -1, Z: -1}}
}
