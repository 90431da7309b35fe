package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

func TestOrbitFrustumBasis(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(5, 0, -3)
	f := c.Frustum(DefaultLens(), 16.0/9.0)

	if d := f.Forward.Dot(f.Right); abs(d) > 1e-5 {
		t.Errorf("forward . right = %f, want 0", d)
	}
	if d := f.Forward.Dot(f.Up); abs(d) > 1e-5 {
		t.Errorf("forward . up = %f, want 0", d)
	}
	if f.Up.Y <= 0 {
		t.Errorf("up should point upward, got %v", f.Up)
	}

	// The orbit center lies on the view axis.
	toCenter := math.Vec3{X: 5, Y: 0, Z: -3}.Sub(f.Position).Normalize()
	if toCenter.Dot(f.Forward) < 0.9999 {
		t.Errorf("forward %v does not point at center (%v)", f.Forward, toCenter)
	}
}

func TestFrustumLensConversion(t *testing.T) {
	f := NewOrbitCamera().Frustum(Lens{FieldOfView: 90, Near: 1, Far: 50}, 1)

	if abs(f.FieldOfView-gomath.Pi/2) > 1e-6 {
		t.Errorf("fov = %f rad, want pi/2", f.FieldOfView)
	}
	// 45 degrees each way on a square viewport: corner tangent is sqrt(2).
	if got := f.TanHalfDiagonal(); abs(got-float32(gomath.Sqrt2)) > 1e-5 {
		t.Errorf("TanHalfDiagonal = %f, want sqrt(2)", got)
	}
}

func TestViewProjectionCentersForwardPoint(t *testing.T) {
	f := NewOrbitCamera().Frustum(DefaultLens(), 1.5)
	p := f.Position.Add(f.Forward.Scale(10))

	clip := f.ViewProjection().TransformVec3(p)
	if abs(clip.X) > 1e-4 || abs(clip.Y) > 1e-4 {
		t.Errorf("point on view axis projected to %v, want screen center", clip)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 100; i++ {
		c.HandleZoom(5)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %f, want clamp to %f", c.Distance, c.MinDistance)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestSliceSphereEnclosesCorners(t *testing.T) {
	f := NewOrbitCamera().Frustum(Lens{FieldOfView: 60, Near: 0.3, Far: 1000}, 16.0/9.0)

	tests := []struct {
		name      string
		near, far float32
	}{
		{"thin near slice", 0.3, 5},
		{"mid slice", 10, 25},
		{"deep slice", 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := f.SliceSphere(tt.near, tt.far)
			center := s.XYZ()
			for _, p := range sliceCorners(f, tt.near, tt.far) {
				if d := p.Distance(center); d > s.W*1.0001 {
					t.Errorf("corner %v at distance %f outside radius %f", p, d, s.W)
				}
			}
		})
	}
}

func TestSliceSphereDeterministic(t *testing.T) {
	// Same camera, same slice: the sphere is a pure function of the frustum.
	f := NewOrbitCamera().Frustum(DefaultLens(), 1.25)
	a := f.SliceSphere(1, 20)
	b := f.SliceSphere(1, 20)
	if a != b {
		t.Errorf("SliceSphere not deterministic: %v vs %v", a, b)
	}
}

func sliceCorners(f Frustum, near, far float32) []math.Vec3 {
	tanY := float32(gomath.Tan(float64(f.FieldOfView) / 2))
	tanX := tanY * f.Aspect
	var out []math.Vec3
	for _, d := range []float32{near, far} {
		for _, sx := range []float32{-1, 1} {
			for _, sy := range []float32{-1, 1} {
				p := f.Position.
					Add(f.Forward.Scale(d)).
					Add(f.Right.Scale(sx * tanX * d)).
					Add(f.Up.Scale(sy * tanY * d))
				out = append(out, p)
			}
		}
	}
	return out
}
