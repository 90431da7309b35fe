package debug

import (
	"image"
	"image/color"
	"image/draw"
	gomath "math"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

// Line is a 2D segment in atlas pixels with a top-left origin.
type Line struct {
	X0, Y0, X1, Y1 float32
	Color          [4]float32
}

// Cascade colours repeat per light.
var cascadeColors = [shadow.MaxCascades][4]float32{
	{1, 0.3, 0.3, 1},
	{0.3, 1, 0.3, 1},
	{0.3, 0.5, 1, 1},
	{1, 1, 0.3, 1},
}

// CascadeColor returns the overlay colour of a cascade.
func CascadeColor(cascade int) [4]float32 {
	return cascadeColors[cascade%len(cascadeColors)]
}

// AtlasGrid outlines every rendered tile, scaled from atlas pixels to a
// preview of size pixels. Tile viewports have a bottom-left origin.
func AtlasGrid(frame shadow.FrameInfo, size float32) []Line {
	if frame.Fallback || frame.Layout.AtlasSize <= 0 {
		return nil
	}
	scale := size / float32(frame.Layout.AtlasSize)
	lines := make([]Line, 0, len(frame.Tiles)*4)
	for _, t := range frame.Tiles {
		x0 := t.Viewport.X * scale
		x1 := (t.Viewport.X + t.Viewport.Width) * scale
		y0 := size - (t.Viewport.Y+t.Viewport.Height)*scale
		y1 := size - t.Viewport.Y*scale
		c := CascadeColor(t.Cascade)
		lines = append(lines,
			Line{x0, y0, x1, y0, c},
			Line{x1, y0, x1, y1, c},
			Line{x1, y1, x0, y1, c},
			Line{x0, y1, x0, y0, c},
		)
	}
	return lines
}

// TileAt returns the tile under a preview position, if any.
func TileAt(frame shadow.FrameInfo, size, x, y float32) (shadow.TileInfo, bool) {
	if frame.Fallback || frame.Layout.AtlasSize <= 0 || size <= 0 {
		return shadow.TileInfo{}, false
	}
	scale := float32(frame.Layout.AtlasSize) / size
	px := x * scale
	py := (size - y) * scale
	for _, t := range frame.Tiles {
		v := t.Viewport
		if px >= v.X && px < v.X+v.Width && py >= v.Y && py < v.Y+v.Height {
			return t, true
		}
	}
	return shadow.TileInfo{}, false
}

// DrawLines rasterizes lines onto img, clipped to its bounds.
func DrawLines(img draw.Image, lines []Line) {
	b := img.Bounds()
	for _, l := range lines {
		c := color.RGBA{
			R: uint8(l.Color[0] * 255),
			G: uint8(l.Color[1] * 255),
			B: uint8(l.Color[2] * 255),
			A: uint8(l.Color[3] * 255),
		}
		dx, dy := l.X1-l.X0, l.Y1-l.Y0
		steps := int(gomath.Ceil(float64(max(abs(dx), abs(dy)))))
		for i := 0; i <= steps; i++ {
			t := float32(0)
			if steps > 0 {
				t = float32(i) / float32(steps)
			}
			p := image.Pt(int(l.X0+dx*t), int(l.Y0+dy*t))
			// Edges on the far border land one past the last pixel.
			if p.X == b.Max.X {
				p.X--
			}
			if p.Y == b.Max.Y {
				p.Y--
			}
			if p.In(b) {
				img.Set(p.X, p.Y, c)
			}
		}
	}
}

// AtlasPreview turns a bottom-up depth readback into an RGBA preview with
// the frame's tile grid drawn over it.
func AtlasPreview(depth []float32, frame shadow.FrameInfo, size int) (*image.RGBA, error) {
	gray, err := DepthImage(depth, size, size)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(gray.Bounds())
	draw.Draw(out, out.Bounds(), gray, image.Point{}, draw.Src)
	DrawLines(out, AtlasGrid(frame, float32(size)))
	return out, nil
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
