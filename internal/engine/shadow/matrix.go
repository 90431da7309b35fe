package shadow

import (
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// ConvertToAtlasMatrix turns a cascade's projection*view matrix into one that
// maps world space to atlas texture coordinates and [0,1] depth. offset is the
// tile's grid column and row, split the number of tiles per atlas side.
// With reversedZ the depth row is negated first.
func ConvertToAtlasMatrix(m math.Mat4, offset math.Vec2, split int, reversedZ bool) math.Mat4 {
	if reversedZ {
		m.SetRow(2, m.Row(2).Scale(-1))
	}

	scale := 1 / float32(split)
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	m.SetRow(0, r0.Add(r3).Scale(0.5).Add(r3.Scale(offset.X)).Scale(scale))
	m.SetRow(1, r1.Add(r3).Scale(0.5).Add(r3.Scale(offset.Y)).Scale(scale))
	m.SetRow(2, r2.Add(r3).Scale(0.5))
	return m
}
