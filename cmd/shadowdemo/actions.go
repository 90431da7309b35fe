package main

import (
	"fmt"
	"slices"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

const (
	actionQuit         = "quit"
	actionFilterNext   = "filter"
	actionFilterPrev   = "filter-prev"
	actionBlendNext    = "blend"
	actionBlendPrev    = "blend-prev"
	actionCascades     = "cascades"
	actionAtlasUp      = "atlas+"
	actionAtlasDown    = "atlas-"
	actionDistanceUp   = "distance+"
	actionDistanceDown = "distance-"
	actionGizmos       = "gizmos"
	actionFullscreen   = "fullscreen"
	actionScreenshot   = "screenshot"
)

const (
	filterModes  = int(shadow.PCF7x7) + 1
	blendModes   = int(shadow.BlendDither) + 1
	distanceStep = 1.25
	minDistance  = 5
	maxDistance  = 1000
)

// applyAction changes the shadow settings for a bound action and reports
// whether it did.
func applyAction(s *shadow.Settings, action string) bool {
	d := &s.Directional
	switch action {
	case actionFilterNext:
		d.Filter = shadow.FilterMode(wrap(int(d.Filter)+1, filterModes))
	case actionFilterPrev:
		d.Filter = shadow.FilterMode(wrap(int(d.Filter)-1, filterModes))
	case actionBlendNext:
		d.CascadeBlend = shadow.CascadeBlendMode(wrap(int(d.CascadeBlend)+1, blendModes))
	case actionBlendPrev:
		d.CascadeBlend = shadow.CascadeBlendMode(wrap(int(d.CascadeBlend)-1, blendModes))
	case actionCascades:
		d.CascadeCount = d.CascadeCount%shadow.MaxCascades + 1
	case actionAtlasUp:
		d.AtlasSize = stepAtlas(d.AtlasSize, 1)
	case actionAtlasDown:
		d.AtlasSize = stepAtlas(d.AtlasSize, -1)
	case actionDistanceUp:
		s.MaxDistance = min(s.MaxDistance*distanceStep, maxDistance)
	case actionDistanceDown:
		s.MaxDistance = max(s.MaxDistance/distanceStep, minDistance)
	default:
		return false
	}
	return true
}

// stepAtlas moves to the neighbouring supported size, stopping at either end.
func stepAtlas(size shadow.MapSize, step int) shadow.MapSize {
	i := slices.Index(shadow.MapSizes, size)
	if i < 0 {
		return shadow.Map1024
	}
	return shadow.MapSizes[min(max(i+step, 0), len(shadow.MapSizes)-1)]
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

func title(s shadow.Settings) string {
	d := s.Directional
	return fmt.Sprintf("%s - %v, %v blend, %d cascades, %d atlas, %.0fm",
		windowTitle, d.Filter, d.CascadeBlend, d.CascadeCount, d.AtlasSize, s.MaxDistance)
}
