package shadow

import (
	gomath "math"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Cascade is the light-space view of one cascade of a directional light.
type Cascade struct {
	View       math.Mat4
	Projection math.Mat4
	// Center is the world-space point at the middle of the orthographic box.
	Center math.Vec3
	Split  command.SplitData
}

// CascadeRequest holds the inputs of ComputeDirectionalCascade.
type CascadeRequest struct {
	Frustum        camera.Frustum
	ShadowDistance float32
	// ToLight points from the scene towards the light.
	ToLight         math.Vec3
	Index           int
	Count           int
	Ratios          [3]float32
	TileSize        int
	NearPlaneOffset float32
}

// CullingFactor returns the cascade blend culling factor for a cascade fade.
func CullingFactor(cascadeFade float32) float32 {
	return max(0, 0.8-cascadeFade)
}

// cascadeRange returns the view distances covered by cascade index.
// The last cascade always ends at the shadow distance.
func cascadeRange(near, shadowDistance float32, index, count int, ratios [3]float32) (float32, float32) {
	ratio := func(i int) float32 {
		if i >= count-1 || i >= len(ratios) {
			return 1
		}
		return ratios[i]
	}

	from := near
	if index > 0 {
		from = max(near, ratio(index-1)*shadowDistance)
	}
	return from, ratio(index) * shadowDistance
}

// CullingSphere returns the bounding sphere of cascade index as center.xyz and
// radius. It depends only on the camera and the split ratios.
func CullingSphere(f camera.Frustum, shadowDistance float32, index, count int, ratios [3]float32) math.Vec4 {
	from, to := cascadeRange(f.Near, shadowDistance, index, count, ratios)
	return f.SliceSphere(from, to)
}

// ComputeDirectionalCascade fits an orthographic light view around the
// culling sphere of one cascade. The box center is snapped to whole texels of
// the tile so the shadow does not shimmer as the camera moves.
func ComputeDirectionalCascade(req CascadeRequest) Cascade {
	sphere := CullingSphere(req.Frustum, req.ShadowDistance, req.Index, req.Count, req.Ratios)
	radius := sphere.W
	toLight := req.ToLight.Normalize()

	up := math.Vec3{Y: 1}
	if abs32(toLight.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	forward := toLight.Negate()
	right := forward.Cross(up).Normalize()
	lightUp := right.Cross(forward)

	center := sphere.XYZ()
	if radius > 0 && req.TileSize > 0 {
		texelsPerUnit := float32(req.TileSize) / (2 * radius)
		x := center.Dot(right)
		y := center.Dot(lightUp)
		center = center.
			Add(right.Scale(snap(x, texelsPerUnit) - x)).
			Add(lightUp.Scale(snap(y, texelsPerUnit) - y))
	}

	depth := radius + req.NearPlaneOffset
	eye := center.Add(toLight.Scale(depth))

	split := command.SplitData{CullingSphere: sphere}
	if req.Index > 0 {
		split.InnerSphere = CullingSphere(req.Frustum, req.ShadowDistance, req.Index-1, req.Count, req.Ratios)
	}

	return Cascade{
		View:       math.LookAt(eye, center, up),
		Projection: math.Ortho(-radius, radius, -radius, radius, 0, depth+radius),
		Center:     center,
		Split:      split,
	}
}

// cascadeData shrinks a culling sphere by the filter footprint and returns the
// squared-radius sphere and the {1/r², filter size × √2} pair sent to shading.
func cascadeData(sphere math.Vec4, tileSize int, filter FilterMode) (math.Vec4, math.Vec4) {
	texelSize := 2 * sphere.W / float32(tileSize)
	filterSize := texelSize * (float32(filter) + 1)
	sphere.W -= filterSize
	sphere.W *= sphere.W
	return sphere, math.Vec4{X: 1 / sphere.W, Y: filterSize * 1.4142136}
}

func snap(v, texelsPerUnit float32) float32 {
	return float32(gomath.Floor(float64(v*texelsPerUnit))) / texelsPerUnit
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
