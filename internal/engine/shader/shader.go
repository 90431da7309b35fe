// Package shader compiles OpenGL programs and their keyword variants.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type stage struct {
	kind uint32
	name string
}

var (
	vertexStage   = stage{gl.VERTEX_SHADER, "vertex"}
	fragmentStage = stage{gl.FRAGMENT_SHADER, "fragment"}
)

// CompileProgram compiles a vertex and fragment source pair and links them.
// The returned error carries the driver's info log.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileStage(vertexStage, vertexSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileStage(fragmentStage, fragmentSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	// Shaders stay flagged for deletion until detached.
	defer gl.DetachShader(program, vs)
	defer gl.DetachShader(program, fs)

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", msg)
	}
	return program, nil
}

func compileStage(st stage, source string) (uint32, error) {
	sh := gl.CreateShader(st.kind)
	src, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, src, nil)
	free()
	gl.CompileShader(sh)

	var ok int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s shader: %s", st.name, msg)
	}
	return sh, nil
}

func infoLog(id uint32, iv func(uint32, uint32, *int32), get func(uint32, int32, *int32, *uint8)) string {
	var n int32
	iv(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return "no info log"
	}
	buf := make([]byte, n)
	get(id, n, nil, &buf[0])
	return string(buf[:n-1])
}

func deleteProgram(p uint32) {
	gl.DeleteProgram(p)
}

// GetUniform returns a uniform location, or -1 when the program has no
// active uniform of that name. Keyword variants strip unused uniforms, so
// a missing location is not an error.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
