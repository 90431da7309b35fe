package main

import (
	"slices"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/internal/engine/picking"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

var (
	filterLabels = []string{"PCF 2x2", "PCF 3x3", "PCF 5x5", "PCF 7x7"}
	blendLabels  = []string{"Hard", "Soft", "Dither"}
)

// atlasIndex returns the slider position of an atlas size.
func atlasIndex(size shadow.MapSize) int32 {
	if i := slices.Index(shadow.MapSizes, size); i >= 0 {
		return int32(i)
	}
	return int32(slices.Index(shadow.MapSizes, shadow.Map1024))
}

// atlasAt returns the atlas size of a slider position.
func atlasAt(i int32) shadow.MapSize {
	return shadow.MapSizes[min(max(int(i), 0), len(shadow.MapSizes)-1)]
}

func label(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return "?"
	}
	return labels[i]
}

// tileSummary is the atlas tooltip for one tile.
type tileSummary struct {
	Index, Light, Cascade int
	Radius                float32
	X, Y, Size            float32
}

func summarize(t shadow.TileInfo) tileSummary {
	return tileSummary{
		Index:   t.Index,
		Light:   t.LightSlot,
		Cascade: t.Cascade,
		Radius:  t.Split.CullingSphere.W,
		X:       t.Viewport.X,
		Y:       t.Viewport.Y,
		Size:    t.Viewport.Width,
	}
}

// pickBox returns the box under a viewport pixel, or -1.
func pickBox(s *scene.Scene, f camera.Frustum, x, y, w, h float32) int {
	bounds := make([]culling.AABB, len(s.Boxes))
	for i, b := range s.Boxes {
		bounds[i] = b.Bounds()
	}
	i, _, ok := picking.Pick(picking.ScreenToRay(f, x, y, w, h), bounds)
	if !ok {
		return -1
	}
	return i
}

// casterTiles returns the atlas tiles the box is drawn into.
func casterTiles(s *scene.Scene, frame shadow.FrameInfo, box int) []int {
	var out []int
	for _, t := range frame.Tiles {
		if slices.Contains(s.CascadeCasters(t.VisibleLightIndex, t.Split), box) {
			out = append(out, t.Index)
		}
	}
	return out
}
