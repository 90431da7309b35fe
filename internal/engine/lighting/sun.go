package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a light direction.
// Longitude is rotation around the Y axis (0-360), latitude is elevation from
// the horizon (0-90). The result is normalized and points towards the sun.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lonRad := float64(longitude) * gomath.Pi / 180.0
	latRad := float64(latitude) * gomath.Pi / 180.0

	// Spherical to Cartesian, Y up
	return math.Vec3{
		X: float32(gomath.Cos(latRad) * gomath.Sin(lonRad)),
		Y: float32(gomath.Sin(latRad)),
		Z: float32(gomath.Cos(latRad) * gomath.Cos(lonRad)),
	}
}
