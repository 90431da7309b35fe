package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("Normalize of zero vector = %v, want zero", zero)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got, want := a.Min(b), (Vec3{1, -1, -2}); got != want {
		t.Errorf("Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, 0}); got != want {
		t.Errorf("Max() = %v, want %v", got, want)
	}
}

func TestVec4XYZ(t *testing.T) {
	v := Vec3{1, 2, 3}.Vec4(9)
	if v.W != 9 {
		t.Errorf("W = %v, want 9", v.W)
	}
	if v.XYZ() != (Vec3{1, 2, 3}) {
		t.Errorf("XYZ() = %v, want (1, 2, 3)", v.XYZ())
	}
}

func TestVec2Vec4(t *testing.T) {
	got := Vec2{X: 2, Y: 3}.Vec4(4, 1)
	if want := (Vec4{X: 2, Y: 3, Z: 4, W: 1}); got != want {
		t.Errorf("Vec4() = %v, want %v", got, want)
	}
}
