package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/shader"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// uniforms caches uniform locations of one program by name.
type uniforms struct {
	program uint32
	locs    map[string]int32
}

func newUniforms(program uint32) *uniforms {
	return &uniforms{program: program, locs: make(map[string]int32)}
}

func (u *uniforms) loc(name string) int32 {
	if l, ok := u.locs[name]; ok {
		return l
	}
	l := shader.GetUniform(u.program, name)
	u.locs[name] = l
	return l
}

func (u *uniforms) setInt(name string, v int) {
	if l := u.loc(name); l >= 0 {
		gl.Uniform1i(l, int32(v))
	}
}

func (u *uniforms) setVec3(name string, v math.Vec3) {
	if l := u.loc(name); l >= 0 {
		gl.Uniform3f(l, v.X, v.Y, v.Z)
	}
}

func (u *uniforms) setVec4(name string, v math.Vec4) {
	if l := u.loc(name); l >= 0 {
		gl.Uniform4f(l, v.X, v.Y, v.Z, v.W)
	}
}

func (u *uniforms) setMat4(name string, m math.Mat4) {
	if l := u.loc(name); l >= 0 {
		gl.UniformMatrix4fv(l, 1, false, m.Ptr())
	}
}

func (u *uniforms) setVec4Array(name string, v []math.Vec4) {
	if len(v) == 0 {
		return
	}
	if l := u.loc(name); l >= 0 {
		gl.Uniform4fv(l, int32(len(v)), &v[0].X)
	}
}

func (u *uniforms) setMat4Array(name string, m []math.Mat4) {
	if len(m) == 0 {
		return
	}
	if l := u.loc(name); l >= 0 {
		gl.UniformMatrix4fv(l, int32(len(m)), false, m[0].Ptr())
	}
}

// setGlobals uploads every global property the program declares. Names the
// program does not use resolve to -1 and are skipped.
func (u *uniforms) setGlobals(g *command.Globals) {
	for name, v := range g.Ints {
		u.setInt(name, v)
	}
	for name, v := range g.Vectors {
		u.setVec4(name, v)
	}
	for name, v := range g.VectorArrays {
		u.setVec4Array(name, v)
	}
	for name, v := range g.MatrixArrays {
		u.setMat4Array(name, v)
	}
}
