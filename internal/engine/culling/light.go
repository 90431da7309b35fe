package culling

import "github.com/Faultbox/midgard-csm/pkg/math"

// LightType identifies the light source model.
type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

// ShadowMode selects how a light casts shadows.
type ShadowMode int

const (
	ShadowsNone ShadowMode = iota
	ShadowsHard
	ShadowsSoft
)

// Light is a scene light as seen by the pipeline.
type Light struct {
	Type      LightType
	Color     [3]float32 // Linear RGB
	Intensity float32

	// Direction points from the scene towards the light source.
	Direction math.Vec3

	Shadows         ShadowMode
	ShadowStrength  float32 // 0..1
	ShadowBias      float32 // Slope-scale depth bias
	ShadowNormal    float32 // Normal bias, in texels
	ShadowNearPlane float32 // Near-plane pull-back in world units
}

// FinalColor returns the light color premultiplied by intensity.
func (l Light) FinalColor() [3]float32 {
	return [3]float32{l.Color[0] * l.Intensity, l.Color[1] * l.Intensity, l.Color[2] * l.Intensity}
}
