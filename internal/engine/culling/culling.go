// Package culling gathers the per-camera visibility data the pipeline renders from:
// the camera frustum, the shadow distance, visible lights, and shadow caster bounds.
package culling

import (
	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// CasterSource provides world-space bounds of shadow-casting geometry.
type CasterSource interface {
	ShadowCasters() []AABB
}

// Results is the outcome of culling one camera for one frame.
type Results struct {
	Camera         camera.Frustum
	ShadowDistance float32

	lights  []Light
	casters []AABB
	// Bounding sphere of the camera's shadowed view range.
	shadowSphere math.Vec4
}

// Cull builds the culling results for a camera. The shadow distance is the
// smaller of maxShadowDistance and the camera far plane.
func Cull(frustum camera.Frustum, lights []Light, casters CasterSource, maxShadowDistance float32) *Results {
	r := &Results{
		Camera:         frustum,
		ShadowDistance: min(maxShadowDistance, frustum.Far),
		lights:         lights,
	}
	if casters != nil {
		r.casters = casters.ShadowCasters()
	}
	r.shadowSphere = frustum.SliceSphere(frustum.Near, r.ShadowDistance)
	return r
}

// VisibleLights returns the lights visible to the camera in stable order.
// Directional lights are always visible.
func (r *Results) VisibleLights() []Light {
	return r.lights
}

// ShadowCasterBounds returns the bounds of casters that can throw shadows into
// the shadowed view range of the visible light at index i. It reports false when
// there are none, when i is out of range, or when the light is not directional.
func (r *Results) ShadowCasterBounds(i int) (AABB, bool) {
	if i < 0 || i >= len(r.lights) || r.lights[i].Type != LightDirectional {
		return AABB{}, false
	}

	toLight := r.lights[i].Direction.Normalize()
	bounds := EmptyAABB()
	for _, c := range r.casters {
		if ReachesSphere(c, r.shadowSphere, toLight) {
			bounds = bounds.Union(c)
		}
	}
	if bounds.IsEmpty() {
		return AABB{}, false
	}
	return bounds, true
}

// ReachesSphere reports whether a caster can throw shadow into a receiver
// sphere lit from toLight. The caster's bounding sphere is tested against the
// half-infinite cylinder swept from the receiver sphere towards the light.
func ReachesSphere(caster AABB, sphere math.Vec4, toLight math.Vec3) bool {
	if caster.IsEmpty() {
		return false
	}
	cs := caster.Sphere()
	rel := cs.XYZ().Sub(sphere.XYZ())
	along := rel.Dot(toLight)
	reach := sphere.W + cs.W
	if along < -reach {
		return false
	}
	perp := rel.Sub(toLight.Scale(along))
	return perp.Dot(perp) <= reach*reach
}

// CoveredBy reports whether a caster lies entirely inside sphere with its
// radius scaled by factor. A zero radius or factor covers nothing.
func CoveredBy(caster AABB, sphere math.Vec4, factor float32) bool {
	r := sphere.W * factor
	if r <= 0 || caster.IsEmpty() {
		return false
	}
	cs := caster.Sphere()
	return cs.XYZ().Distance(sphere.XYZ())+cs.W <= r
}
