// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Stage is one shader stage of a program.
type Stage struct {
	Kind   uint32 // gl.VERTEX_SHADER, gl.TESS_CONTROL_SHADER, ...
	Name   string // Used in error messages
	Source string
}

// CompileError reports a stage that failed to compile.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader: %s", e.Stage, strings.TrimRight(e.Log, "\x00\n "))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "link: " + strings.TrimRight(e.Log, "\x00\n ")
}

// CompileProgram compiles every stage and links them into a program.
// Returns the program ID or a *CompileError / *LinkError.
func CompileProgram(stages ...Stage) (uint32, error) {
	if len(stages) == 0 {
		return 0, fmt.Errorf("no shader stages")
	}

	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		s, err := compileShader(st.Source, st.Kind, st.Name)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, s)
	}

	// Link program
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, &LinkError{Log: string(log)}
	}

	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, &CompileError{Stage: name, Log: "glCreateShader returned 0"}
	}
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: name, Log: string(log)}
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
