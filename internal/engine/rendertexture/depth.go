// Package rendertexture owns the GPU render textures named by command
// buffers: shadow map depth targets and the pool that hands them out.
package rendertexture

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
)

// Target is a framebuffer with a single texture attachment.
type Target struct {
	FBO     uint32
	Texture uint32
	Desc    Desc
}

// Desc describes the storage of a render texture.
type Desc struct {
	Width, Height int
	DepthBits     int
	Filter        command.FilterMode
	Format        command.TextureFormat
}

// DescFor extracts the storage description from a temporary texture request.
func DescFor(c command.GetTemporaryRT) Desc {
	return Desc{Width: c.Width, Height: c.Height, DepthBits: c.DepthBits, Filter: c.Filter, Format: c.Format}
}

// NewGL allocates a target on the current OpenGL context. Only shadow map
// formats are supported.
func NewGL(d Desc) (*Target, error) {
	if d.Format != command.FormatShadowmap {
		return nil, fmt.Errorf("unsupported render texture format %d", d.Format)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("invalid render texture size %dx%d", d.Width, d.Height)
	}

	t := &Target{Desc: d}
	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)

	gl.GenTextures(1, &t.Texture)
	gl.BindTexture(gl.TEXTURE_2D, t.Texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, depthFormat(d.DepthBits), int32(d.Width), int32(d.Height), 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	filter := int32(gl.NEAREST)
	if d.Filter == command.FilterBilinear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	// Samples outside the atlas read as fully lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	// sampler2DShadow comparison
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.Texture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		DestroyGL(t)
		return nil, fmt.Errorf("render texture framebuffer incomplete: 0x%x", status)
	}
	return t, nil
}

// DestroyGL releases a target's GPU resources.
func DestroyGL(t *Target) {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
		t.FBO = 0
	}
	if t.Texture != 0 {
		gl.DeleteTextures(1, &t.Texture)
		t.Texture = 0
	}
}

func depthFormat(bits int) int32 {
	switch {
	case bits <= 16:
		return gl.DEPTH_COMPONENT16
	case bits <= 24:
		return gl.DEPTH_COMPONENT24
	}
	return gl.DEPTH_COMPONENT32F
}

// ReadDepth reads a depth target back to the CPU, bottom row first.
func ReadDepth(t *Target) []float32 {
	w, h := t.Desc.Width, t.Desc.Height
	depth := make([]float32, w*h)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(depth))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	return depth
}
