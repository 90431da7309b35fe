// Package debug turns GPU readbacks into images and builds the overlays the
// viewer draws over the shadow atlas.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Capture writes images to timestamped files.
type Capture struct {
	outputDir string
	prefix    string
	// Format is "png" or "bmp".
	Format string
}

// NewCapture creates a capture writing PNG files to outputDir.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{outputDir: outputDir, prefix: prefix, Format: "png"}
}

// SetOutputDir sets the output directory for captures.
func (c *Capture) SetOutputDir(dir string) {
	c.outputDir = dir
}

// GenerateFilename returns the path the next capture would use.
func (c *Capture) GenerateFilename(label string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	name := c.prefix
	if label != "" {
		name += "_" + label
	}
	filename := fmt.Sprintf("%s_%s.%s", name, timestamp, c.ext())
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}

func (c *Capture) ext() string {
	if strings.EqualFold(c.Format, "bmp") {
		return "bmp"
	}
	return "png"
}

// Save writes img to a new file and returns its path.
func (c *Capture) Save(label string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	filename := c.GenerateFilename(label)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, img, c.ext()); err != nil {
		return "", err
	}
	return filename, nil
}

// Encode writes img as png or bmp.
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png", "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("encoding BMP: %w", err)
		}
	default:
		return fmt.Errorf("unknown image format %q", format)
	}
	return nil
}

// FlipRGBA builds an image from bottom-up RGBA pixels as read from OpenGL.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// DepthImage maps bottom-up depth samples in [0,1] to grey levels, near
// surfaces dark. Values outside [0,1] are clamped.
func DepthImage(depth []float32, width, height int) (*image.Gray, error) {
	if len(depth) != width*height {
		return nil, fmt.Errorf("depth data size mismatch: expected %d, got %d", width*height, len(depth))
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := depth[(height-1-y)*width:]
		for x := 0; x < width; x++ {
			d := min(max(row[x], 0), 1)
			img.SetGray(x, y, color.Gray{Y: uint8(d*255 + 0.5)})
		}
	}
	return img, nil
}
