package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/rendertexture"
)

// GLContext executes command buffers immediately on the current OpenGL
// context. Geometry commands are forwarded to a Drawer.
type GLContext struct {
	drawer   Drawer
	pool     *rendertexture.Pool
	profiler *Profiler
	log      *zap.Logger
	env      Env

	// output is the framebuffer cameras render into; 0 is the window.
	output uint32
	target string
	bias   command.SetGlobalDepthBias

	submits int
	err     error
}

// NewGLContext creates a context drawing geometry through drawer.
// A nil logger disables logging.
func NewGLContext(drawer Drawer, log *zap.Logger) *GLContext {
	if log == nil {
		log = zap.NewNop()
	}
	if drawer == nil {
		drawer = nopDrawer{}
	}
	c := &GLContext{
		drawer:   drawer,
		pool:     rendertexture.NewPool(rendertexture.GL, log),
		profiler: NewProfiler(log),
		log:      log,
	}
	c.env.Globals = command.NewGlobals()
	c.env.pool = c.pool
	c.env.Log = log
	return c
}

// SetOutput sets the framebuffer SetupCameraProperties binds. 0 is the window.
func (c *GLContext) SetOutput(fbo uint32) {
	c.output = fbo
}

// Globals returns the global property block built by executed commands.
func (c *GLContext) Globals() *command.Globals {
	return c.env.Globals
}

// Texture returns the GL texture bound to a global name, or 0.
func (c *GLContext) Texture(name string) uint32 {
	return c.env.Texture(name)
}

// Target returns the render texture bound to a global name.
func (c *GLContext) Target(name string) (*rendertexture.Target, bool) {
	return c.pool.Lookup(name)
}

// Profiler returns the sample profiler.
func (c *GLContext) Profiler() *Profiler {
	return c.profiler
}

// BeginFrame clears the previous frame's samples and error.
func (c *GLContext) BeginFrame() {
	c.profiler.Reset()
	c.err = nil
}

// Err returns the errors raised since BeginFrame.
func (c *GLContext) Err() error {
	return c.err
}

// ExecuteCommandBuffer implements command.Context.
func (c *GLContext) ExecuteCommandBuffer(b *command.Buffer) {
	for _, cmd := range b.Commands() {
		c.execute(cmd)
	}
}

// UsesReversedZBuffer implements command.Context. OpenGL 4.1 has no
// clip control, so depth always runs near to far.
func (c *GLContext) UsesReversedZBuffer() bool {
	return false
}

// Submit implements command.Context.
func (c *GLContext) Submit() {
	gl.Flush()
	c.submits++
}

// Submits returns how many times Submit was called.
func (c *GLContext) Submits() int {
	return c.submits
}

// Destroy frees every render texture.
func (c *GLContext) Destroy() {
	c.pool.Destroy()
}

func (c *GLContext) fail(err error) {
	c.log.Error("command failed", zap.Error(err))
	c.err = errors.Join(c.err, err)
}

func (c *GLContext) execute(cmd command.Command) {
	if c.env.Globals.Apply(cmd) {
		return
	}
	switch cmd := cmd.(type) {
	case command.GetTemporaryRT:
		if _, err := c.pool.Get(cmd.Name, rendertexture.DescFor(cmd)); err != nil {
			c.fail(err)
		}

	case command.ReleaseTemporaryRT:
		if c.target == cmd.Name {
			gl.BindFramebuffer(gl.FRAMEBUFFER, c.output)
			c.target = ""
		}
		c.pool.Release(cmd.Name)

	case command.SetRenderTarget:
		t, ok := c.pool.Lookup(cmd.Name)
		if !ok {
			c.fail(fmt.Errorf("render target %s not allocated", cmd.Name))
			return
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
		gl.Viewport(0, 0, int32(t.Desc.Width), int32(t.Desc.Height))
		c.target = cmd.Name

	case command.ClearRenderTarget:
		var mask uint32
		if cmd.Depth {
			gl.DepthMask(true)
			mask |= gl.DEPTH_BUFFER_BIT
		}
		if cmd.Color {
			gl.ClearColor(cmd.Value[0], cmd.Value[1], cmd.Value[2], cmd.Value[3])
			mask |= gl.COLOR_BUFFER_BIT
		}
		if mask != 0 {
			gl.Clear(mask)
		}

	case command.SetViewport:
		r := cmd.Rect
		gl.Viewport(int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height))

	case command.SetViewProjectionMatrices:
		c.env.View = cmd.View
		c.env.Projection = cmd.Projection

	case command.SetGlobalDepthBias:
		c.bias = cmd

	case command.DrawShadows:
		c.beginCasterState()
		c.drawer.DrawShadowCasters(&c.env, cmd)
		c.endCasterState()

	case command.SetupCameraProperties:
		c.env.Camera = cmd
		c.env.View = cmd.View
		c.env.Projection = cmd.Projection
		gl.BindFramebuffer(gl.FRAMEBUFFER, c.output)
		gl.Viewport(0, 0, int32(cmd.Width), int32(cmd.Height))
		c.target = ""

	case command.DrawRenderers:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		if cmd.Queue == command.QueueTransparent {
			gl.Enable(gl.BLEND)
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
			gl.DepthMask(false)
		} else {
			gl.DepthMask(true)
		}
		c.drawer.DrawRenderers(&c.env, cmd)
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)

	case command.DrawSkybox:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
		gl.DepthMask(false)
		c.drawer.DrawSkybox(&c.env)
		gl.DepthMask(true)
		gl.DepthFunc(gl.LESS)

	case command.DrawGizmos:
		c.drawer.DrawGizmos(&c.env, cmd.Subset)

	case command.BeginSample:
		c.profiler.Begin(cmd.Name)

	case command.EndSample:
		c.profiler.End(cmd.Name)

	default:
		c.log.Warn("unhandled command", zap.String("type", fmt.Sprintf("%T", cmd)))
	}
}

// beginCasterState sets up depth-only drawing. Depth clamping keeps casters
// in front of the light's near plane from being clipped.
func (c *GLContext) beginCasterState() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.ColorMask(false, false, false, false)
	gl.Enable(gl.DEPTH_CLAMP)
	gl.Disable(gl.CULL_FACE)
	if c.bias.Bias != 0 || c.bias.SlopeBias != 0 {
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(c.bias.SlopeBias, c.bias.Bias)
	}
}

func (c *GLContext) endCasterState() {
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(0, 0)
	gl.Disable(gl.DEPTH_CLAMP)
	gl.ColorMask(true, true, true, true)
	gl.Enable(gl.CULL_FACE)
}

type nopDrawer struct{}

func (nopDrawer) DrawShadowCasters(*Env, command.DrawShadows) {}
func (nopDrawer) DrawRenderers(*Env, command.DrawRenderers)   {}
func (nopDrawer) DrawSkybox(*Env)                             {}
func (nopDrawer) DrawGizmos(*Env, command.GizmoSubset)        {}
