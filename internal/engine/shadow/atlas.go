package shadow

import (
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Split returns how many tiles per side the atlas is divided into for the
// given total tile count: the smallest of 1, 2 or 4 whose square holds them.
func Split(tiles int) int {
	switch {
	case tiles <= 1:
		return 1
	case tiles <= 4:
		return 2
	default:
		return 4
	}
}

// Layout is the tile grid of one frame's atlas.
type Layout struct {
	AtlasSize int
	Split     int
	TileSize  int
}

// NewLayout divides an atlas of the given size for a total tile count.
func NewLayout(atlasSize, tiles int) Layout {
	split := Split(tiles)
	return Layout{AtlasSize: atlasSize, Split: split, TileSize: atlasSize / split}
}

// Offset returns the grid column and row of tile index.
func (l Layout) Offset(index int) math.Vec2 {
	return math.Vec2{X: float32(index % l.Split), Y: float32(index / l.Split)}
}

// Viewport returns the pixel rectangle of tile index.
func (l Layout) Viewport(index int) command.Rect {
	o := l.Offset(index)
	size := float32(l.TileSize)
	return command.Rect{X: o.X * size, Y: o.Y * size, Width: size, Height: size}
}
