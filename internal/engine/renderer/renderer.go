// Package renderer issues the per-frame draw of the mesh.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
)

// RadiusUnit is the texture unit of the radius lookup table.
const RadiusUnit = 0

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	Primitive     gpu.Primitive
	PatchVertices int32
	ClearColor    [4]float32
	CullFaces     bool
	Wireframe     bool
}

// View supplies the matrices of a frame.
type View interface {
	ProjectionMatrix() mgl32.Mat4
	ViewMatrix() mgl32.Mat4
}

// Renderer owns the mesh program and the fixed pipeline state.
type Renderer struct {
	dev    gpu.Device
	config Config

	program     uint32
	projection  int32
	modelView   int32
	textureUnit int32
}

// New compiles the program from stages and sets up the default state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(dev gpu.Device, cfg Config, stages []shader.Stage) (*Renderer, error) {
	if cfg.Primitive == gpu.Patches && cfg.PatchVertices <= 0 {
		return nil, fmt.Errorf("patch primitive needs a positive patch size, got %d", cfg.PatchVertices)
	}

	program, err := dev.CreateProgram(stages)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r := &Renderer{
		dev:         dev,
		config:      cfg,
		program:     program,
		projection:  dev.UniformLocation(program, shader.UniformProjection),
		modelView:   dev.UniformLocation(program, shader.UniformModelView),
		textureUnit: dev.UniformLocation(program, shader.UniformTexture),
	}

	dev.Enable(gpu.DepthTest)
	if cfg.CullFaces {
		dev.Enable(gpu.CullFace)
	}
	dev.ClearColor(cfg.ClearColor)
	r.SetWireframe(cfg.Wireframe)
	if cfg.Width > 0 && cfg.Height > 0 {
		dev.Viewport(cfg.Width, cfg.Height)
	}

	logger.Debug("shader program created",
		zap.Uint32("program", program),
		zap.Stringer("primitive", cfg.Primitive),
	)
	return r, nil
}

// Close deletes the program. Calling it again is a no-op.
func (r *Renderer) Close() {
	if r.program == 0 {
		return
	}
	logger.Info("closing renderer")
	r.dev.DeleteProgram(r.program)
	r.program = 0
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	r.dev.Viewport(width, height)
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// SetWireframe switches between line and fill polygon mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
	if on {
		r.dev.PolygonMode(gpu.Line)
	} else {
		r.dev.PolygonMode(gpu.Fill)
	}
}

// Wireframe reports whether polygons are drawn as lines.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Frame clears the targets and draws the whole mesh once.
// Presenting is left to the caller's surface.
func (r *Renderer) Frame(view View, mesh *gpu.MeshBuffers, radius *texture.Radius) {
	r.dev.Clear()
	if mesh == nil || mesh.Released() {
		return
	}

	projection := view.ProjectionMatrix()
	modelView := view.ViewMatrix()

	r.dev.UseProgram(r.program)
	if radius != nil {
		radius.Bind(RadiusUnit)
	}
	r.dev.Uniform1i(r.textureUnit, RadiusUnit)
	r.dev.UniformMat4(r.projection, projection)
	r.dev.UniformMat4(r.modelView, modelView)

	r.dev.BindVertexArray(mesh.VertexArray)
	if r.config.Primitive == gpu.Patches {
		r.dev.PatchVertices(r.config.PatchVertices)
	}
	r.dev.DrawElements(r.config.Primitive, mesh.IndexCount)
	r.dev.BindVertexArray(0)
}
