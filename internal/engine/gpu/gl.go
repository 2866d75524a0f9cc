package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/logger"
)

var _ Device = (*GLDevice)(nil)

// GLDevice implements Device on the current OpenGL 4.1 core context.
type GLDevice struct {
	Version  string
	Renderer string
}

// NewGLDevice loads the GL function pointers.
// IMPORTANT: Must be called AFTER the OpenGL context is current!
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &GLDevice{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	logger.Info("OpenGL initialized",
		zap.String("version", d.Version),
		zap.String("renderer", d.Renderer),
	)
	return d, nil
}

// glError reads and clears the GL error flags.
func glError() error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	if first == 0 {
		return nil
	}
	return fmt.Errorf("gl error 0x%04x", first)
}

func (d *GLDevice) CreateBuffer(size int) (uint32, error) {
	_ = glError()

	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("glGenBuffers returned 0")
	}
	// COPY_WRITE_BUFFER leaves the array and element bindings untouched.
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, size, nil, gl.STATIC_DRAW)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	if err := glError(); err != nil {
		gl.DeleteBuffers(1, &id)
		return 0, err
	}
	return id, nil
}

func (d *GLDevice) WriteFloats(buffer uint32, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buffer)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, 0, len(data)*4, gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (d *GLDevice) WriteIndices(buffer uint32, data []uint32) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buffer)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, 0, len(data)*4, gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (d *GLDevice) DeleteBuffer(buffer uint32) {
	if buffer != 0 {
		gl.DeleteBuffers(1, &buffer)
	}
}

func (d *GLDevice) CreateVertexArray() (uint32, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("glGenVertexArrays returned 0")
	}
	return vao, nil
}

func (d *GLDevice) VertexAttrib(vao, slot, buffer uint32, components int32) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(slot)
	gl.VertexAttribPointer(slot, components, gl.FLOAT, false, components*4, nil)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (d *GLDevice) ElementSource(vao, buffer uint32) {
	// The element binding is vertex array state; keep it bound past the unbind.
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffer)
	gl.BindVertexArray(0)
}

func (d *GLDevice) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *GLDevice) DeleteVertexArray(vao uint32) {
	if vao != 0 {
		gl.DeleteVertexArrays(1, &vao)
	}
}

func (d *GLDevice) CreateProgram(stages []shader.Stage) (uint32, error) {
	return shader.CompileProgram(stages...)
}

func (d *GLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return shader.GetUniform(program, name)
}

func (d *GLDevice) UniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *GLDevice) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *GLDevice) DeleteProgram(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

func (d *GLDevice) CreateTexture1D(data []float32) (uint32, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("empty texture data")
	}
	_ = glError()

	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, fmt.Errorf("glGenTextures returned 0")
	}
	gl.BindTexture(gl.TEXTURE_1D, tex)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexImage1D(gl.TEXTURE_1D, 0, gl.R32F, int32(len(data)), 0, gl.RED, gl.FLOAT, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_1D, 0)

	if err := glError(); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return tex, nil
}

func (d *GLDevice) BindTexture1D(unit, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_1D, texture)
}

func (d *GLDevice) DeleteTexture(texture uint32) {
	if texture != 0 {
		gl.DeleteTextures(1, &texture)
	}
}

func (d *GLDevice) Enable(c Capability) {
	gl.Enable(uint32(c))
}

func (d *GLDevice) ClearColor(c [4]float32) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (d *GLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GLDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *GLDevice) PolygonMode(mode PolygonMode) {
	gl.PolygonMode(gl.FRONT_AND_BACK, uint32(mode))
}

func (d *GLDevice) PatchVertices(n int32) {
	gl.PatchParameteri(gl.PATCH_VERTICES, n)
}

func (d *GLDevice) DrawElements(mode Primitive, count int32) {
	gl.DrawElements(uint32(mode), count, gl.UNSIGNED_INT, nil)
}

func (d *GLDevice) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
