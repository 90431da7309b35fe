package pipeline

import (
	"github.com/Faultbox/midgard-csm/internal/engine/camera"
)

// ClearFlags selects what a camera clears before drawing. Lower values clear more.
type ClearFlags int

const (
	ClearSkybox ClearFlags = iota + 1
	ClearColor
	ClearDepth
	ClearNothing
)

// Camera is one view rendered by the pipeline.
type Camera struct {
	Name       string
	Frustum    camera.Frustum
	Width      int
	Height     int
	ClearFlags ClearFlags
	// Background is used when ClearFlags is ClearColor.
	Background [4]float32
}

// valid reports whether culling parameters can be derived from the camera.
func (c *Camera) valid() bool {
	f := c.Frustum
	return f.Near > 0 && f.Far > f.Near && f.Aspect > 0 && f.FieldOfView > 0
}
