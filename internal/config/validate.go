package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

// Validate rejects settings that cannot be rendered at all.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(shadow.MapSizes, c.Shadows.Directional.AtlasSize) {
		errs = append(errs, fmt.Errorf("shadows: unsupported atlas size %d", c.Shadows.Directional.AtlasSize))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: invalid depth range %g..%g", c.Camera.Near, c.Camera.Far))
	}
	return errors.Join(errs...)
}

// ClampShadows limits settings to the ranges the editor allows. Ratio order
// is left alone; non-monotonic splits render, just poorly.
func ClampShadows(s shadow.Settings) shadow.Settings {
	s.MaxDistance = max(s.MaxDistance, 0.001)
	s.DistanceFade = clamp(s.DistanceFade, 0.001, 1)
	d := &s.Directional
	d.CascadeCount = min(max(d.CascadeCount, 1), shadow.MaxCascades)
	d.CascadeRatio1 = clamp(d.CascadeRatio1, 0, 1)
	d.CascadeRatio2 = clamp(d.CascadeRatio2, 0, 1)
	d.CascadeRatio3 = clamp(d.CascadeRatio3, 0, 1)
	d.CascadeFade = clamp(d.CascadeFade, 0.001, 1)
	d.Filter = min(max(d.Filter, shadow.PCF2x2), shadow.PCF7x7)
	d.CascadeBlend = min(max(d.CascadeBlend, shadow.BlendHard), shadow.BlendDither)
	return s
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
