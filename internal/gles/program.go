package gles

import (
	"errors"
	"fmt"
)

var (
	ErrShaderCompile = errors.New("shader compile failed")
	ErrProgramLink   = errors.New("program link failed")
)

// BuildProgram compiles and links a program from vertex and fragment sources.
// The shader objects are released once linked.
func BuildProgram(gl Context, vertexSrc, fragmentSrc string) (Program, error) {
	vs, err := compileShader(gl, VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(gl, FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(fs)

	p := gl.CreateProgram()
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.LinkProgram(p)
	if Enum(gl.GetProgrami(p, LINK_STATUS)) == FALSE {
		log := gl.GetProgramInfoLog(p)
		gl.DeleteProgram(p)
		return 0, fmt.Errorf("%w: %s", ErrProgramLink, log)
	}
	return p, nil
}

func compileShader(gl Context, ty Enum, src string) (Shader, error) {
	s := gl.CreateShader(ty)
	gl.ShaderSource(s, src)
	gl.CompileShader(s)
	if Enum(gl.GetShaderi(s, COMPILE_STATUS)) == FALSE {
		log := gl.GetShaderInfoLog(s)
		gl.DeleteShader(s)
		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, log)
	}
	return s, nil
}
