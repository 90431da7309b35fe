package renderer

import (
	"fmt"
	gomath "math"
	"slices"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/debug"
	"github.com/Faultbox/midgard-csm/internal/engine/mesh"
	"github.com/Faultbox/midgard-csm/internal/engine/pipeline"
	"github.com/Faultbox/midgard-csm/internal/engine/renderer/shaders"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/engine/shader"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Stats counts the draws of one frame.
type Stats struct {
	CasterDraws   int
	CasterSkipped int
	Renderers     int
}

// SceneRenderer draws a scene's boxes for GLContext.
type SceneRenderer struct {
	scene *scene.Scene

	lit     *shader.Cache
	litVars map[uint32]*uniforms
	caster  *uniforms
	sky     *uniforms
	line    *uniforms

	cubeVAO, cubeVBO uint32
	lineVAO, lineVBO uint32
	emptyVAO         uint32

	// ShowBounds draws caster bounds before image effects.
	ShowBounds bool
	// ShowSpheres draws cascade culling spheres after image effects.
	ShowSpheres bool
	Horizon     [3]float32
	Zenith      [3]float32

	stats Stats
}

// NewSceneRenderer compiles the scene programs and uploads the cube mesh.
// It must be called with a current OpenGL context.
func NewSceneRenderer(s *scene.Scene) (*SceneRenderer, error) {
	r := &SceneRenderer{
		scene:   s,
		lit:     shader.NewCache(shaders.LitVertexShader, shaders.LitFragmentShader),
		litVars: make(map[uint32]*uniforms),
		Horizon: [3]float32{0.75, 0.8, 0.85},
		Zenith:  [3]float32{0.25, 0.45, 0.75},
	}

	programs := []struct {
		name   string
		vs, fs string
		dst    **uniforms
	}{
		{"caster", shaders.CasterVertexShader, shaders.CasterFragmentShader, &r.caster},
		{"sky", shaders.SkyVertexShader, shaders.SkyFragmentShader, &r.sky},
		{"line", shaders.LineVertexShader, shaders.LineFragmentShader, &r.line},
	}
	for _, p := range programs {
		prog, err := shader.CompileProgram(p.vs, p.fs)
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("%s program: %w", p.name, err)
		}
		*p.dst = newUniforms(prog)
	}

	// Compile the base lit variant up front so shader errors surface here.
	if _, err := r.lit.Program(nil); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("lit program: %w", err)
	}

	r.createCube()
	r.createLines()
	gl.GenVertexArrays(1, &r.emptyVAO)
	return r, nil
}

// SetScene replaces the scene drawn.
func (r *SceneRenderer) SetScene(s *scene.Scene) {
	r.scene = s
}

// Scene returns the scene drawn.
func (r *SceneRenderer) Scene() *scene.Scene {
	return r.scene
}

// Stats returns the draw counts since the last ResetStats.
func (r *SceneRenderer) Stats() Stats {
	return r.stats
}

// ResetStats zeroes the draw counts.
func (r *SceneRenderer) ResetStats() {
	r.stats = Stats{}
}

// Variants returns the number of compiled lit shader variants.
func (r *SceneRenderer) Variants() int {
	return r.lit.Len()
}

func (r *SceneRenderer) createCube() {
	vertices := mesh.Cube()
	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(mesh.CubeStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *SceneRenderer) createLines() {
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// DrawShadowCasters implements Drawer.
func (r *SceneRenderer) DrawShadowCasters(env *Env, cmd command.DrawShadows) {
	if r.scene == nil {
		return
	}
	casters := r.scene.CascadeCasters(cmd.VisibleLightIndex, cmd.Split)
	total := 0
	for _, b := range r.scene.Boxes {
		if b.Casts() {
			total++
		}
	}
	r.stats.CasterDraws += len(casters)
	r.stats.CasterSkipped += total - len(casters)
	if len(casters) == 0 {
		return
	}

	gl.UseProgram(r.caster.program)
	r.caster.setMat4("uViewProj", env.ViewProjection())
	gl.BindVertexArray(r.cubeVAO)
	for _, i := range casters {
		r.caster.setMat4("uModel", mesh.Model(r.scene.Boxes[i].Bounds()))
		gl.DrawArrays(gl.TRIANGLES, 0, mesh.CubeVertexCount)
	}
	gl.BindVertexArray(0)
}

// DrawRenderers implements Drawer. Boxes only carry the lit pass, so error
// material draws of legacy passes select nothing.
func (r *SceneRenderer) DrawRenderers(env *Env, cmd command.DrawRenderers) {
	if r.scene == nil || cmd.ErrorMaterial || !slices.Contains(cmd.Passes, pipeline.LitPass) {
		return
	}
	prog, ok := variantOrBase(r.lit, env.Globals.Keywords(), env.Log)
	if !ok {
		return
	}
	u, ok := r.litVars[prog]
	if !ok {
		u = newUniforms(prog)
		r.litVars[prog] = u
	}

	gl.UseProgram(prog)
	u.setGlobals(env.Globals)
	u.setMat4("uViewProj", env.ViewProjection())
	u.setMat4("uView", env.View)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, env.Texture(shadow.DirShadowAtlas))
	u.setInt(shadow.DirShadowAtlas, 0)

	gl.BindVertexArray(r.cubeVAO)
	for _, i := range r.scene.Renderers(cmd.Queue, env.Camera.Position) {
		b := r.scene.Boxes[i]
		alpha := float32(1)
		if b.Transparent {
			alpha = 0.45
		}
		u.setMat4("uModel", mesh.Model(b.Bounds()))
		u.setVec4("uColor", math.Vec4{X: b.Color[0], Y: b.Color[1], Z: b.Color[2], W: alpha})
		gl.DrawArrays(gl.TRIANGLES, 0, mesh.CubeVertexCount)
		r.stats.Renderers++
	}
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// DrawSkybox implements Drawer.
func (r *SceneRenderer) DrawSkybox(*Env) {
	gl.UseProgram(r.sky.program)
	r.sky.setVec3("uHorizon", math.Vec3{X: r.Horizon[0], Y: r.Horizon[1], Z: r.Horizon[2]})
	r.sky.setVec3("uZenith", math.Vec3{X: r.Zenith[0], Y: r.Zenith[1], Z: r.Zenith[2]})
	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// DrawGizmos implements Drawer.
func (r *SceneRenderer) DrawGizmos(env *Env, subset command.GizmoSubset) {
	switch subset {
	case command.GizmosPreImageEffects:
		if !r.ShowBounds || r.scene == nil {
			return
		}
		var vertices []float32
		for _, b := range r.scene.Boxes {
			if b.Casts() {
				vertices = append(vertices, mesh.Wireframe(b.Bounds())...)
			}
		}
		r.drawLines(env, vertices, [4]float32{1, 0.85, 0.2, 1})

	case command.GizmosPostImageEffects:
		if !r.ShowSpheres {
			return
		}
		spheres := env.Globals.VectorArrays[shadow.CascadeCullingSpheres]
		count := min(env.Globals.Ints[shadow.CascadeCountName], len(spheres))
		for i := 0; i < count; i++ {
			s := spheres[i]
			// The published radius is squared.
			s.W = float32(gomath.Sqrt(float64(max(s.W, 0))))
			r.drawLines(env, mesh.Sphere(s), debug.CascadeColor(i))
		}
	}
}

func (r *SceneRenderer) drawLines(env *Env, vertices []float32, color [4]float32) {
	if len(vertices) == 0 {
		return
	}
	gl.UseProgram(r.line.program)
	r.line.setMat4("uViewProj", env.ViewProjection())
	r.line.setVec4("uColor", math.Vec4{X: color[0], Y: color[1], Z: color[2], W: color[3]})

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.DepthFunc(gl.LESS)
}

// Destroy releases all GPU resources.
func (r *SceneRenderer) Destroy() {
	r.lit.Destroy()
	for _, u := range []*uniforms{r.caster, r.sky, r.line} {
		if u != nil {
			gl.DeleteProgram(u.program)
		}
	}
	r.caster, r.sky, r.line = nil, nil, nil
	for _, vao := range []*uint32{&r.cubeVAO, &r.lineVAO, &r.emptyVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.cubeVBO, &r.lineVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
}

type programSource interface {
	Program(keywords []string) (uint32, error)
}

// variantOrBase returns the keyword variant, falling back to the base
// variant when it fails to compile. It reports false when neither compiles.
func variantOrBase(src programSource, keywords []string, log *zap.Logger) (uint32, bool) {
	if log == nil {
		log = zap.NewNop()
	}
	prog, err := src.Program(keywords)
	if err == nil {
		return prog, true
	}
	log.Warn("lit variant failed, using base variant",
		zap.Strings("keywords", keywords), zap.Error(err))
	prog, err = src.Program(nil)
	if err != nil {
		log.Error("lit base variant failed", zap.Error(err))
		return 0, false
	}
	return prog, true
}
