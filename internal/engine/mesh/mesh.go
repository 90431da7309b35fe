// Package mesh generates the vertex data the renderer draws: a unit cube for
// scene boxes and line lists for bounds and culling sphere gizmos.
package mesh

import (
	gomath "math"

	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// CubeStride is the number of floats per cube vertex: position then normal.
const CubeStride = 6

// CubeVertexCount is the number of vertices in Cube (6 faces, 2 triangles each).
const CubeVertexCount = 36

// Cube returns a unit cube centred on the origin as a triangle list with
// counter-clockwise front faces.
func Cube() []float32 {
	type face struct {
		normal math.Vec3
		u, v   math.Vec3
	}
	faces := []face{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}

	out := make([]float32, 0, CubeVertexCount*CubeStride)
	for _, f := range faces {
		c := f.normal.Scale(0.5)
		u := f.u.Scale(0.5)
		v := f.v.Scale(0.5)
		corners := [4]math.Vec3{
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		}
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			p := corners[i]
			out = append(out, p.X, p.Y, p.Z, f.normal.X, f.normal.Y, f.normal.Z)
		}
	}
	return out
}

// Model returns the matrix placing the unit cube over bounds.
func Model(bounds culling.AABB) math.Mat4 {
	c := bounds.Center()
	size := bounds.Max.Sub(bounds.Min)
	return math.Translate(c.X, c.Y, c.Z).Mul(math.Scale(size.X, size.Y, size.Z))
}

// WireframeVertexCount is the number of vertices Wireframe returns (12 edges x 2).
const WireframeVertexCount = 24

// Wireframe returns line vertices outlining bounds, three floats per vertex.
func Wireframe(bounds culling.AABB) []float32 {
	lo, hi := bounds.Min, bounds.Max
	return []float32{
		// Bottom
		lo.X, lo.Y, lo.Z, hi.X, lo.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, lo.Y, hi.Z,
		hi.X, lo.Y, hi.Z, lo.X, lo.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, lo.Y, lo.Z,
		// Top
		lo.X, hi.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, hi.Y, lo.Z, hi.X, hi.Y, hi.Z,
		hi.X, hi.Y, hi.Z, lo.X, hi.Y, hi.Z,
		lo.X, hi.Y, hi.Z, lo.X, hi.Y, lo.Z,
		// Vertical
		lo.X, lo.Y, lo.Z, lo.X, hi.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, lo.Y, hi.Z, hi.X, hi.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, hi.Y, hi.Z,
	}
}

// SphereSegments is the number of line segments per great circle in Sphere.
const SphereSegments = 32

// Sphere returns line vertices for three axis-aligned great circles of a
// sphere packed as {center, radius}. A non-positive radius yields nil.
func Sphere(s math.Vec4) []float32 {
	if s.W <= 0 {
		return nil
	}
	out := make([]float32, 0, 3*SphereSegments*2*3)
	point := func(axis, i int) math.Vec3 {
		a := 2 * gomath.Pi * float64(i) / SphereSegments
		x := float32(gomath.Cos(a)) * s.W
		y := float32(gomath.Sin(a)) * s.W
		switch axis {
		case 0:
			return math.Vec3{X: s.X, Y: s.Y + x, Z: s.Z + y}
		case 1:
			return math.Vec3{X: s.X + x, Y: s.Y, Z: s.Z + y}
		}
		return math.Vec3{X: s.X + x, Y: s.Y + y, Z: s.Z}
	}
	for axis := 0; axis < 3; axis++ {
		for i := 0; i < SphereSegments; i++ {
			a, b := point(axis, i), point(axis, i+1)
			out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	}
	return out
}
