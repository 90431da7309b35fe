// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Frustum describes a perspective camera in world space.
// Forward, Right and Up must form an orthonormal basis.
type Frustum struct {
	FieldOfView float32 // Vertical, radians
	Near        float32
	Far         float32
	Aspect      float32 // Width / height

	Position math.Vec3
	Right    math.Vec3
	Up       math.Vec3
	Forward  math.Vec3
}

// ViewMatrix returns the world-to-view matrix.
func (f Frustum) ViewMatrix() math.Mat4 {
	return math.LookAt(f.Position, f.Position.Add(f.Forward), f.Up)
}

// ProjectionMatrix returns the perspective projection for this frustum.
func (f Frustum) ProjectionMatrix() math.Mat4 {
	return math.Perspective(f.FieldOfView, f.Aspect, f.Near, f.Far)
}

// ViewProjection returns projection * view.
func (f Frustum) ViewProjection() math.Mat4 {
	return f.ProjectionMatrix().Mul(f.ViewMatrix())
}

// TanHalfDiagonal returns the tangent of the angle between the view axis
// and a frustum corner ray.
func (f Frustum) TanHalfDiagonal() float32 {
	tanY := gomath.Tan(float64(f.FieldOfView) / 2)
	tanX := tanY * float64(f.Aspect)
	return float32(gomath.Sqrt(tanX*tanX + tanY*tanY))
}

// Lens holds the projection parameters shared by every frame.
type Lens struct {
	FieldOfView float32 // Vertical, degrees
	Near        float32
	Far         float32
}

// DefaultLens returns a 60 degree lens with a 0.3..1000 depth range.
func DefaultLens() Lens {
	return Lens{FieldOfView: 60, Near: 0.3, Far: 1000}
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        30.0,
		RotationX:       0.45,
		RotationY:       0.6,
		MinDistance:     2.0,
		MaxDistance:     400.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// Frustum returns the camera frustum for the given lens and viewport aspect.
func (c *OrbitCamera) Frustum(lens Lens, aspect float32) Frustum {
	pos := c.Position()
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}

	forward := center.Sub(pos).Normalize()
	right := forward.Cross(math.Vec3{Y: 1}).Normalize()
	up := right.Cross(forward)

	return Frustum{
		FieldOfView: lens.FieldOfView * gomath.Pi / 180,
		Near:        lens.Near,
		Far:         lens.Far,
		Aspect:      aspect,
		Position:    pos,
		Right:       right,
		Up:          up,
		Forward:     forward,
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dirX := float32(gomath.Sin(float64(c.RotationY)))
	dirZ := float32(gomath.Cos(float64(c.RotationY)))
	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	// Negate forward so W moves "into" the scene
	c.CenterX += (-dirX*forward + rightX*right) * speed
	c.CenterZ += (-dirZ*forward + rightZ*right) * speed
	c.CenterY += up * speed
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// SliceSphere returns the smallest sphere enclosing the part of the frustum
// between view distances near and far, as center.xyz + radius.
// The result depends only on the camera, never on any light.
func (f Frustum) SliceSphere(near, far float32) math.Vec4 {
	t := f.TanHalfDiagonal()
	t2 := t * t

	// Center distance along the view axis that is equidistant from the near
	// and far corner rings. Past the far plane the far ring alone bounds the slice.
	d := 0.5 * (far + near) * (1 + t2)
	if d > far {
		d = far
	}

	dz := far - d
	r := far * t
	radius := float32(gomath.Sqrt(float64(dz*dz + r*r)))

	center := f.Position.Add(f.Forward.Scale(d))
	return center.Vec4(radius)
}
