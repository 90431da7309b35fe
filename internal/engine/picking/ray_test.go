package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

func near(a, b, eps float32) bool {
	return float32(gomath.Abs(float64(a-b))) <= eps
}

func box(minX, minY, minZ, maxX, maxY, maxZ float32) culling.AABB {
	return culling.AABB{Min: math.Vec3{X: minX, Y: minY, Z: minZ}, Max: math.Vec3{X: maxX, Y: maxY, Z: maxZ}}
}

func testFrustum() camera.Frustum {
	return camera.Frustum{
		FieldOfView: gomath.Pi / 2,
		Near:        0.1,
		Far:         100,
		Aspect:      2,
		Position:    math.Vec3{Z: 10},
		Right:       math.Vec3{X: 1},
		Up:          math.Vec3{Y: 1},
		Forward:     math.Vec3{Z: -1},
	}
}

func TestScreenToRay(t *testing.T) {
	tests := []struct {
		name string
		x, y float32
		want math.Vec3
	}{
		{"center", 100, 50, math.Vec3{Z: -1}},
		{"right edge", 200, 50, math.Vec3{X: 2, Z: -1}.Normalize()},
		{"top edge", 100, 0, math.Vec3{Y: 1, Z: -1}.Normalize()},
		{"bottom left", 0, 100, math.Vec3{X: -2, Y: -1, Z: -1}.Normalize()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScreenToRay(testFrustum(), tt.x, tt.y, 200, 100)
			if r.Origin != (math.Vec3{Z: 10}) {
				t.Errorf("origin = %v, want camera position", r.Origin)
			}
			d := r.Direction
			if !near(d.X, tt.want.X, 1e-5) || !near(d.Y, tt.want.Y, 1e-5) || !near(d.Z, tt.want.Z, 1e-5) {
				t.Errorf("direction = %v, want %v", d, tt.want)
			}
		})
	}
}

func TestIntersectAABB(t *testing.T) {
	r := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: -1}}
	tests := []struct {
		name  string
		box   culling.AABB
		wantT float32
		hit   bool
	}{
		{"in front", box(-1, -1, -1, 1, 1, 1), 9, true},
		{"behind", box(-1, -1, 11, 1, 1, 12), 0, false},
		{"beside", box(2, -1, -1, 3, 1, 1), 0, false},
		{"inside", box(-1, -1, 9, 1, 1, 11), 1, true},
		{"edge on", box(0, -1, -1, 1, 1, 1), 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := r.IntersectAABB(tt.box)
			if hit != tt.hit || (hit && !near(got, tt.wantT, 1e-5)) {
				t.Errorf("IntersectAABB = %v, %v; want %v, %v", got, hit, tt.wantT, tt.hit)
			}
		})
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1, Y: -1}.Normalize()}
	x, z, ok := r.IntersectPlaneY(0)
	if !ok || !near(x, 10, 1e-4) || z != 0 {
		t.Errorf("IntersectPlaneY = (%v, %v, %v), want (10, 0, true)", x, z, ok)
	}
	if _, _, ok := r.IntersectPlaneY(20); ok {
		t.Error("plane behind the ray should not intersect")
	}
}

func TestPick(t *testing.T) {
	r := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: -1}}
	boxes := []culling.AABB{
		box(-1, -1, -6, 1, 1, -4),
		box(5, 5, 5, 6, 6, 6),
		box(-1, -1, 0, 1, 1, 2),
	}
	i, d, ok := Pick(r, boxes)
	if !ok || i != 2 || !near(d, 8, 1e-5) {
		t.Errorf("Pick = %d, %v, %v; want 2, 8, true", i, d, ok)
	}
	if _, _, ok := Pick(r, boxes[1:2]); ok {
		t.Error("expected no hit")
	}
}
