package shadow

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// TileInfo describes one rendered atlas tile.
type TileInfo struct {
	Index     int
	LightSlot int
	// VisibleLightIndex is the light's index in the culling results.
	VisibleLightIndex int
	Cascade           int
	Viewport          command.Rect
	Split             command.SplitData
	Matrix            math.Mat4
}

// FrameInfo summarises the shadow work of one frame. Tiles is only valid for
// the duration of the callback.
type FrameInfo struct {
	Layout   Layout
	Lights   int
	Cascades int
	Fallback bool
	Tiles    []TileInfo
}

// Diagnostics observes rendered shadow frames.
type Diagnostics interface {
	ShadowsRendered(frame FrameInfo)
}

// NopDiagnostics ignores every frame.
type NopDiagnostics struct{}

// ShadowsRendered implements Diagnostics.
func (NopDiagnostics) ShadowsRendered(FrameInfo) {}

// LogDiagnostics writes a debug line per frame and per tile.
type LogDiagnostics struct {
	Log *zap.Logger
}

// ShadowsRendered implements Diagnostics.
func (d LogDiagnostics) ShadowsRendered(frame FrameInfo) {
	if d.Log == nil {
		return
	}
	if frame.Fallback {
		d.Log.Debug("shadow atlas placeholder")
		return
	}
	d.Log.Debug("shadow atlas rendered",
		zap.Int("atlas", frame.Layout.AtlasSize),
		zap.Int("split", frame.Layout.Split),
		zap.Int("tile_size", frame.Layout.TileSize),
		zap.Int("lights", frame.Lights),
		zap.Int("cascades", frame.Cascades))
	for _, t := range frame.Tiles {
		d.Log.Debug("shadow tile",
			zap.Int("tile", t.Index),
			zap.Int("light", t.LightSlot),
			zap.Int("cascade", t.Cascade),
			zap.Float32("x", t.Viewport.X),
			zap.Float32("y", t.Viewport.Y),
			zap.Float32("radius", t.Split.CullingSphere.W))
	}
}

// Capture keeps a copy of the last frame for inspection tools.
type Capture struct {
	Frame FrameInfo
}

// ShadowsRendered implements Diagnostics.
func (c *Capture) ShadowsRendered(frame FrameInfo) {
	tiles := append(c.Frame.Tiles[:0], frame.Tiles...)
	c.Frame = frame
	c.Frame.Tiles = tiles
}
