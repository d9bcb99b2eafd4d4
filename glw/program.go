package glw

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
	"golang.org/x/image/math/f32"
)

// caller returns first file and line number outside of this package for calling
// goroutine's stack, prefixed with defaultName which may be overridden based on
// stack frames.
func caller(defaultName string) string {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	var (
		frame runtime.Frame
		more  bool
		name  = defaultName
		inpkg = func(s string) bool { return strings.HasPrefix(s, "dasa.cc/pcv/glw") }
	)

	for frame, more = frames.Next(); more && inpkg(frame.Function); frame, more = frames.Next() {
		if frame.Function == "dasa.cc/pcv/glw.Shader.Compile" {
			name = "Shader"
		}
	}

	return fmt.Sprintf("%s %s:%v", name, frame.File, frame.Line)
}

// Shader is source code of one stage, named by file so the stage is known.
type Shader struct {
	Name   string
	Source string
}

// ShaderAsset returns embedded shader name.
func ShaderAsset(name string) Shader { return Shader{Name: name, Source: mustReadShader(name)} }

// Stage returns GL shader type from the file extension of s.
func (s Shader) Stage() (uint32, error) {
	switch path.Ext(s.Name) {
	case ".vert":
		return gl.VERTEX_SHADER, nil
	case ".tesc":
		return gl.TESS_CONTROL_SHADER, nil
	case ".tese":
		return gl.TESS_EVALUATION_SHADER, nil
	case ".geom":
		return gl.GEOMETRY_SHADER, nil
	case ".frag":
		return gl.FRAGMENT_SHADER, nil
	}
	return 0, fmt.Errorf("glw: unknown shader stage of %q", s.Name)
}

// Compile returns the compiled shader of s and error if any.
func (s Shader) Compile() (uint32, error) {
	typ, err := s.Stage()
	if err != nil {
		return 0, err
	}
	shd := gl.CreateShader(typ)
	csrc, free := gl.Strs(s.Source + "\x00")
	gl.ShaderSource(shd, 1, csrc, nil)
	free()
	gl.CompileShader(shd)

	var status int32
	gl.GetShaderiv(shd, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(shd, gl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(shd, n, nil, gl.Str(msg))
		gl.DeleteShader(shd)
		return 0, fmt.Errorf("%s %s\n%s", caller("CompileShader"), s.Name, msg)
	}
	return shd, nil
}

// Program identifies a linked shader program.
type Program struct{ Program uint32 }

// Use installs program as part of current rendering state.
func (prg Program) Use() { gl.UseProgram(prg.Program) }

// Uniform returns uniform location by name in program.
func (prg Program) Uniform(name string) int32 {
	return gl.GetUniformLocation(prg.Program, gl.Str(name+"\x00"))
}

// Delete frees the memory and invalidates the name associated with the program.
func (prg Program) Delete() { gl.DeleteProgram(prg.Program) }

// MustBuild is a helper that wraps Program.Build and exits on error.
func (prg *Program) MustBuild(stages ...Shader) { must(prg.Build(stages...)) }

// Build compiles every stage and links program.
func (prg *Program) Build(stages ...Shader) error {
	prg.Program = gl.CreateProgram()
	for _, s := range stages {
		shd, err := s.Compile()
		if err != nil {
			return err
		}
		gl.AttachShader(prg.Program, shd)
		defer gl.DeleteShader(shd)
	}

	gl.LinkProgram(prg.Program)

	var status int32
	gl.GetProgramiv(prg.Program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(prg.Program, gl.INFO_LOG_LENGTH, &n)

		msg := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(prg.Program, n, nil, gl.Str(msg))
		return fmt.Errorf("%s\n%s", caller("LinkProgram"), msg)
	}
	return nil
}

func (prg Program) Set1i(name string, v int) { gl.Uniform1i(prg.Uniform(name), int32(v)) }

func (prg Program) Set1f(name string, v float32) { gl.Uniform1f(prg.Uniform(name), v) }

func (prg Program) Set2i(name string, a, b int) { gl.Uniform2i(prg.Uniform(name), int32(a), int32(b)) }

func (prg Program) Set2fv(name string, v f32.Vec2) { gl.Uniform2fv(prg.Uniform(name), 1, &v[0]) }

func (prg Program) Set4fv(name string, v f32.Vec4) { gl.Uniform4fv(prg.Uniform(name), 1, &v[0]) }

func (prg Program) Set16fv(name string, m f32.Mat4) {
	gl.UniformMatrix4fv(prg.Uniform(name), 1, false, &m[0])
}
