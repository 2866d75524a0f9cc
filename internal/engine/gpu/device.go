// Package gpu owns the GPU-side copies of the mesh and the narrow slice of
// the OpenGL API the viewer drives.
package gpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/shader"
)

// Primitive is the topology of a draw call.
type Primitive uint32

const (
	Triangles Primitive = gl.TRIANGLES
	Patches   Primitive = gl.PATCHES
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Patches:
		return "patches"
	default:
		return "unknown"
	}
}

// PolygonMode selects how polygons are rasterised.
type PolygonMode uint32

const (
	Fill PolygonMode = gl.FILL
	Line PolygonMode = gl.LINE
)

// Capability is a server-side GL capability toggled with Enable.
type Capability uint32

const (
	DepthTest Capability = gl.DEPTH_TEST
	CullFace  Capability = gl.CULL_FACE
)

// Device is the GPU API used by the viewer. Handles are plain GL names;
// deleting the zero handle is a no-op.
type Device interface {
	// CreateBuffer allocates size bytes of uninitialised storage.
	CreateBuffer(size int) (uint32, error)
	// WriteFloats replaces the whole contents of a float buffer.
	WriteFloats(buffer uint32, data []float32)
	// WriteIndices replaces the whole contents of an index buffer.
	WriteIndices(buffer uint32, data []uint32)
	DeleteBuffer(buffer uint32)

	CreateVertexArray() (uint32, error)
	// VertexAttrib sources attribute slot of vao from buffer as tightly
	// packed float vectors with the given component count.
	VertexAttrib(vao, slot, buffer uint32, components int32)
	// ElementSource sets the index buffer of vao.
	ElementSource(vao, buffer uint32)
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	CreateProgram(stages []shader.Stage) (uint32, error)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformMat4(location int32, m mgl32.Mat4)
	Uniform1i(location int32, v int32)
	DeleteProgram(program uint32)

	// CreateTexture1D uploads data as a single channel float texture.
	CreateTexture1D(data []float32) (uint32, error)
	BindTexture1D(unit, texture uint32)
	DeleteTexture(texture uint32)

	Enable(c Capability)
	ClearColor(c [4]float32)
	// Clear clears the colour and depth buffers.
	Clear()
	Viewport(width, height int)
	PolygonMode(mode PolygonMode)
	PatchVertices(n int32)
	// DrawElements draws count uint32 indices from the bound vertex array.
	DrawElements(mode Primitive, count int32)
	// ReadPixels reads the back buffer as RGBA, bottom row first.
	ReadPixels(width, height int) []byte
}
