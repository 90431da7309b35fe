// Package scene describes the boxes and lights a shadow demo renders.
// Scenes are plain data loaded from YAML; drawing lives in the renderer.
package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/internal/engine/lighting"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Box is an axis-aligned box with a flat colour.
type Box struct {
	Name     string     `yaml:"name,omitempty"`
	Position [3]float32 `yaml:"position"` // Center
	Size     [3]float32 `yaml:"size"`
	Color    [3]float32 `yaml:"color"`
	// CastShadows defaults to true when omitted.
	CastShadows *bool `yaml:"cast_shadows,omitempty"`
	Transparent bool  `yaml:"transparent,omitempty"`
}

// Casts reports whether the box casts shadows.
func (b Box) Casts() bool {
	return b.CastShadows == nil || *b.CastShadows
}

// Bounds returns the box's world-space bounds.
func (b Box) Bounds() culling.AABB {
	half := math.Vec3{X: b.Size[0] / 2, Y: b.Size[1] / 2, Z: b.Size[2] / 2}
	c := math.Vec3{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]}
	return culling.AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// Light is a directional light. Its direction is given either as a vector
// towards the light or as sun longitude/latitude in degrees.
type Light struct {
	Name      string      `yaml:"name,omitempty"`
	Color     [3]float32  `yaml:"color"`
	Intensity float32     `yaml:"intensity"`
	Direction *[3]float32 `yaml:"direction,omitempty"`
	Longitude float32     `yaml:"longitude,omitempty"`
	Latitude  float32     `yaml:"latitude,omitempty"`

	Shadows         string  `yaml:"shadows"` // none, hard, soft
	ShadowStrength  float32 `yaml:"shadow_strength"`
	ShadowBias      float32 `yaml:"shadow_bias"`
	ShadowNormal    float32 `yaml:"shadow_normal_bias"`
	ShadowNearPlane float32 `yaml:"shadow_near_plane"`
}

// Scene is a set of boxes lit by directional lights.
type Scene struct {
	Name   string  `yaml:"name"`
	Boxes  []Box   `yaml:"boxes"`
	Suns   []Light `yaml:"lights"`
	Camera struct {
		Center   [3]float32 `yaml:"center"`
		Distance float32    `yaml:"distance"`
	} `yaml:"camera"`

	lights []culling.Light
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scene.
func Parse(data []byte) (*Scene, error) {
	s := &Scene{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the scene as YAML.
func (s *Scene) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

func (s *Scene) compile() error {
	s.lights = s.lights[:0]
	for i, l := range s.Suns {
		mode, err := parseShadowMode(l.Shadows)
		if err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
		var dir math.Vec3
		if l.Direction != nil {
			dir = math.Vec3{X: l.Direction[0], Y: l.Direction[1], Z: l.Direction[2]}.Normalize()
		} else {
			dir = lighting.SunDirection(l.Longitude, l.Latitude)
		}
		s.lights = append(s.lights, culling.Light{
			Type:            culling.LightDirectional,
			Color:           l.Color,
			Intensity:       l.Intensity,
			Direction:       dir,
			Shadows:         mode,
			ShadowStrength:  l.ShadowStrength,
			ShadowBias:      l.ShadowBias,
			ShadowNormal:    l.ShadowNormal,
			ShadowNearPlane: l.ShadowNearPlane,
		})
	}
	return nil
}

func parseShadowMode(s string) (culling.ShadowMode, error) {
	switch s {
	case "", "none":
		return culling.ShadowsNone, nil
	case "hard":
		return culling.ShadowsHard, nil
	case "soft":
		return culling.ShadowsSoft, nil
	}
	return 0, fmt.Errorf("unknown shadow mode %q", s)
}

// Lights returns the scene lights in declaration order.
func (s *Scene) Lights() []culling.Light {
	return s.lights
}

// ShadowCasters implements culling.CasterSource.
func (s *Scene) ShadowCasters() []culling.AABB {
	out := make([]culling.AABB, 0, len(s.Boxes))
	for _, b := range s.Boxes {
		if b.Casts() {
			out = append(out, b.Bounds())
		}
	}
	return out
}

// Bounds returns the union of every box.
func (s *Scene) Bounds() culling.AABB {
	b := culling.EmptyAABB()
	for _, box := range s.Boxes {
		b = b.Union(box.Bounds())
	}
	return b
}

// Default returns a ground plane with a field of pillars and two suns.
func Default() *Scene {
	s := &Scene{Name: "pillars"}
	s.Camera.Distance = 40

	noShadow := false
	s.Boxes = append(s.Boxes, Box{
		Name:        "ground",
		Position:    [3]float32{0, -0.5, 0},
		Size:        [3]float32{200, 1, 200},
		Color:       [3]float32{0.55, 0.55, 0.5},
		CastShadows: &noShadow,
	})
	for x := -4; x <= 4; x++ {
		for z := -4; z <= 4; z++ {
			h := float32(1 + (x*x+z*z)%5)
			s.Boxes = append(s.Boxes, Box{
				Position: [3]float32{float32(x) * 8, h / 2, float32(z) * 8},
				Size:     [3]float32{1.5, h, 1.5},
				Color:    [3]float32{0.8, 0.35 + 0.05*float32(x+4), 0.3},
			})
		}
	}
	s.Boxes = append(s.Boxes, Box{
		Name:        "glass",
		Position:    [3]float32{0, 3, 12},
		Size:        [3]float32{6, 6, 0.2},
		Color:       [3]float32{0.4, 0.6, 0.9},
		Transparent: true,
	})

	s.Suns = []Light{
		{
			Name: "sun", Color: [3]float32{1, 0.95, 0.85}, Intensity: 1,
			Longitude: 45, Latitude: 50,
			Shadows: "soft", ShadowStrength: 1, ShadowBias: 1, ShadowNormal: 1, ShadowNearPlane: 0.2,
		},
		{
			Name: "fill", Color: [3]float32{0.4, 0.5, 0.7}, Intensity: 0.5,
			Longitude: 220, Latitude: 30,
			Shadows: "hard", ShadowStrength: 0.6, ShadowBias: 1, ShadowNormal: 1, ShadowNearPlane: 0.2,
		},
	}
	if err := s.compile(); err != nil {
		panic(err)
	}
	return s
}
