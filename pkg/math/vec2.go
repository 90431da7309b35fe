package math

// Vec2 is a 2D vector. Atlas tile offsets are stored as column and row.
type Vec2 struct {
	X, Y float32
}

// Vec4 extends v with z and w.
func (v Vec2) Vec4(z, w float32) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: z, W: w}
}
