package shadow

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MapSize is the side length of the shadow atlas in texels.
type MapSize int

// Supported atlas sizes.
const (
	Map256  MapSize = 256
	Map512  MapSize = 512
	Map1024 MapSize = 1024
	Map2048 MapSize = 2048
	Map4096 MapSize = 4096
	Map8192 MapSize = 8192
)

// MapSizes lists the supported atlas sizes in ascending order.
var MapSizes = []MapSize{Map256, Map512, Map1024, Map2048, Map4096, Map8192}

// FilterMode selects the PCF kernel used when sampling the atlas.
type FilterMode int

const (
	PCF2x2 FilterMode = iota
	PCF3x3
	PCF5x5
	PCF7x7
)

var filterNames = []string{"pcf2x2", "pcf3x3", "pcf5x5", "pcf7x7"}

func (f FilterMode) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return fmt.Sprintf("FilterMode(%d)", int(f))
	}
	return filterNames[f]
}

// ParseFilterMode parses names like "pcf5x5" or "5x5".
func ParseFilterMode(s string) (FilterMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range filterNames {
		if s == name || s == strings.TrimPrefix(name, "pcf") {
			return FilterMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown filter mode %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (f FilterMode) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FilterMode) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseFilterMode(value.Value)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// CascadeBlendMode selects how neighbouring cascades are blended.
type CascadeBlendMode int

const (
	BlendHard CascadeBlendMode = iota
	BlendSoft
	BlendDither
)

var blendNames = []string{"hard", "soft", "dither"}

func (b CascadeBlendMode) String() string {
	if b < 0 || int(b) >= len(blendNames) {
		return fmt.Sprintf("CascadeBlendMode(%d)", int(b))
	}
	return blendNames[b]
}

// ParseCascadeBlendMode parses "hard", "soft" or "dither".
func ParseCascadeBlendMode(s string) (CascadeBlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range blendNames {
		if s == name {
			return CascadeBlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cascade blend mode %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (b CascadeBlendMode) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *CascadeBlendMode) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseCascadeBlendMode(value.Value)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Directional holds the cascade and atlas settings for directional lights.
type Directional struct {
	AtlasSize    MapSize `yaml:"atlas_size"`
	CascadeCount int     `yaml:"cascade_count"` // 1..4
	// The first three split ratios; the last cascade always ends at the shadow distance.
	CascadeRatio1 float32          `yaml:"cascade_ratio_1"`
	CascadeRatio2 float32          `yaml:"cascade_ratio_2"`
	CascadeRatio3 float32          `yaml:"cascade_ratio_3"`
	CascadeFade   float32          `yaml:"cascade_fade"`
	Filter        FilterMode       `yaml:"filter"`
	CascadeBlend  CascadeBlendMode `yaml:"cascade_blend"`
}

// CascadeRatios returns the configurable split ratios.
func (d Directional) CascadeRatios() [3]float32 {
	return [3]float32{d.CascadeRatio1, d.CascadeRatio2, d.CascadeRatio3}
}

// Settings configures the shadow subsystem. Values are used as given.
type Settings struct {
	MaxDistance  float32     `yaml:"max_distance"`
	DistanceFade float32     `yaml:"distance_fade"`
	Directional  Directional `yaml:"directional"`
}

// DefaultSettings returns a 1024 atlas with four cascades and hard 2x2 PCF.
func DefaultSettings() Settings {
	return Settings{
		MaxDistance:  100,
		DistanceFade: 0.1,
		Directional: Directional{
			AtlasSize:     Map1024,
			CascadeCount:  4,
			CascadeRatio1: 0.1,
			CascadeRatio2: 0.25,
			CascadeRatio3: 0.5,
			CascadeFade:   0.1,
			Filter:        PCF2x2,
			CascadeBlend:  BlendHard,
		},
	}
}
