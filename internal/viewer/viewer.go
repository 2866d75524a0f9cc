// Package viewer holds the application state of the mesh viewer and runs
// its frame loop.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/navigation"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

// Viewer is the application state: camera, gesture state, GPU resources
// and the surface they are drawn to. It is not safe for concurrent use;
// everything runs on the thread that owns the GL context.
type Viewer struct {
	cfg     *config.Config
	surface window.Surface
	dev     gpu.Device

	camera   *camera.Camera
	nav      *navigation.Controller
	renderer *renderer.Renderer
	mesh     *formats.Mesh
	buffers  *gpu.MeshBuffers
	radius   *texture.Radius
	shots    *debug.ScreenshotCapture
	watcher  *meshWatcher

	// Window size in pointer coordinates.
	width, height int

	events  []input.Event
	running bool
	closed  bool

	// Frame statistics since the last fps report.
	frames    int
	frameTime float64
}

// Open loads the mesh, then creates the window and GL device and builds the
// viewer. A mesh that fails to parse is reported before any window exists.
func Open(cfg *config.Config) (*Viewer, error) {
	mesh, err := formats.ParseOBJFile(cfg.Mesh.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("mesh loaded",
		zap.String("path", cfg.Mesh.Path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("normals", mesh.NormalCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	surface, err := window.Open(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Backend:    cfg.Window.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dev, err := gpu.NewGLDevice()
	if err != nil {
		surface.Close()
		return nil, err
	}

	return New(cfg, mesh, surface, dev)
}

// New builds the viewer on an open surface. It takes ownership of surface:
// on error everything created so far and the surface are released.
func New(cfg *config.Config, mesh *formats.Mesh, surface window.Surface, dev gpu.Device) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		surface: surface,
		dev:     dev,
		mesh:    mesh,
		camera:  camera.New(),
		shots:   debug.NewScreenshotCapture(cfg.Screenshot.Dir, cfg.Screenshot.Prefix),
	}
	if err := v.init(); err != nil {
		v.Close()
		return nil, err
	}

	logger.Info("viewer initialized",
		zap.Stringer("primitive", v.primitive()),
		zap.Float32("mesh_scale", v.nav.MeshScale),
	)
	return v, nil
}

func (v *Viewer) init() error {
	cfg := v.cfg
	if v.mesh == nil {
		return gpu.ErrEmptyMesh
	}
	if err := v.shots.SetFormat(cfg.Screenshot.Format); err != nil {
		return err
	}

	v.width, v.height = v.surface.Size()
	v.camera.SetFOV(cfg.Camera.FOV)
	v.camera.SetNear(cfg.Camera.Near)
	v.camera.SetFar(cfg.Camera.Far)
	v.camera.SetHome(camera.Pose{
		Position: mgl32.Vec3(cfg.Camera.Position),
		Rotation: mgl32.Vec3(cfg.Camera.Rotation),
	})
	v.camera.Reset()
	v.camera.Resize(v.width, v.height)
	if err := v.camera.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}

	v.nav = navigation.New(v.meshScale(v.mesh))

	stages, err := shader.MeshStages(cfg.Render.ShaderDir, v.primitive() == gpu.Patches)
	if err != nil {
		return fmt.Errorf("loading shaders: %w", err)
	}

	fbWidth, fbHeight := v.surface.DrawableSize()
	v.renderer, err = renderer.New(v.dev, renderer.Config{
		Width:         fbWidth,
		Height:        fbHeight,
		Primitive:     v.primitive(),
		PatchVertices: int32(cfg.Render.PatchVertices),
		ClearColor:    cfg.Render.ClearColor,
		CullFaces:     cfg.Render.CullFaces,
		Wireframe:     cfg.Render.Wireframe,
	}, stages)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	if v.buffers, err = gpu.Upload(v.dev, v.mesh); err != nil {
		return fmt.Errorf("uploading mesh: %w", err)
	}

	if v.radius, err = texture.UploadRadius(v.dev, cfg.Render.RadiusSeed, cfg.Render.RadiusSamples); err != nil {
		return fmt.Errorf("uploading radius table: %w", err)
	}

	if cfg.Mesh.Watch {
		// Hot reload is a convenience; the viewer works without it.
		if v.watcher, err = watchMesh(cfg.Mesh.Path); err != nil {
			logger.Warn("mesh watching disabled", zap.Error(err))
		}
	}

	v.updateTitle()
	return nil
}

func (v *Viewer) primitive() gpu.Primitive {
	if v.cfg.Render.Primitive == config.PrimitiveTriangles {
		return gpu.Triangles
	}
	return gpu.Patches
}

// meshScale returns the navigation scale for mesh: the configured value, or
// the bounding radius when auto scaling is on.
func (v *Viewer) meshScale(mesh *formats.Mesh) float32 {
	if v.cfg.Navigation.AutoScale {
		if r := mesh.Radius(); r > 0 {
			return r
		}
	}
	return v.cfg.Navigation.MeshScale
}

func (v *Viewer) updateTitle() {
	v.surface.SetTitle(fmt.Sprintf("%s - %s (%d triangles)",
		v.cfg.Window.Title, filepath.Base(v.cfg.Mesh.Path), v.mesh.TriangleCount()))
}

// Camera returns the viewer camera.
func (v *Viewer) Camera() *camera.Camera { return v.camera }

// Navigation returns the gesture controller.
func (v *Viewer) Navigation() *navigation.Controller { return v.nav }

// Mesh returns the mesh currently on the GPU.
func (v *Viewer) Mesh() *formats.Mesh { return v.mesh }

// Running reports whether the frame loop should continue.
func (v *Viewer) Running() bool { return v.running }

// Stop ends Run after the current frame.
func (v *Viewer) Stop() { v.running = false }

// HandleEvent applies one input event between frames.
func (v *Viewer) HandleEvent(e input.Event) {
	switch e.Type {
	case input.EventQuit:
		v.running = false

	case input.EventWindowResize:
		if e.Width <= 0 || e.Height <= 0 {
			return
		}
		v.width, v.height = e.Width, e.Height
		v.camera.Resize(e.Width, e.Height)
		v.renderer.Resize(v.surface.DrawableSize())

	case input.EventFocusLost:
		// The release may never arrive once focus is gone.
		v.nav.Cancel()

	case input.EventKeyDown:
		v.handleKey(e.Key)

	default:
		v.nav.Handle(e, v.width, v.height, v.camera)
	}
}

func (v *Viewer) handleKey(key input.Key) {
	switch key {
	case input.KeyEscape:
		v.running = false
	case input.KeyF1:
		v.renderer.SetWireframe(true)
	case input.KeyF2:
		v.renderer.SetWireframe(false)
	case input.KeyR:
		if err := v.Reload(); err != nil {
			logger.Warn("mesh reload failed, keeping current mesh", zap.Error(err))
		}
	case input.KeyHome:
		v.nav.Cancel()
		v.camera.Reset()
	case input.KeyF12:
		v.Screenshot()
	}
}

// Reload parses the mesh file again and swaps the GPU buffers. On error the
// current mesh and buffers stay in use.
func (v *Viewer) Reload() error {
	mesh, err := formats.ParseOBJFile(v.cfg.Mesh.Path)
	if err != nil {
		return err
	}
	buffers, err := gpu.Upload(v.dev, mesh)
	if err != nil {
		return fmt.Errorf("uploading mesh: %w", err)
	}

	v.buffers.Release()
	v.buffers = buffers
	v.mesh = mesh
	v.nav.Cancel()
	v.nav.MeshScale = v.meshScale(mesh)
	v.updateTitle()

	logger.Info("mesh reloaded",
		zap.String("path", v.cfg.Mesh.Path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)
	return nil
}

// Screenshot saves the back buffer in the configured format and returns
// the file name, or "" when the capture failed.
func (v *Viewer) Screenshot() string {
	w, h := v.surface.DrawableSize()
	path, err := v.shots.Capture(v.dev, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return ""
	}
	logger.Info("screenshot saved", zap.String("path", path))
	return path
}

// Update runs the per-frame state update. dt is the previous frame time in
// seconds. Pending file change notifications are consumed here so the GPU
// is only touched from the render thread.
func (v *Viewer) Update(dt float64) {
	v.frames++
	v.frameTime += dt

	if v.watcher == nil {
		return
	}
	select {
	case <-v.watcher.Changed():
		if err := v.Reload(); err != nil {
			logger.Warn("mesh reload failed, keeping current mesh", zap.Error(err))
		}
	default:
	}
}

// frameStats returns the frames counted by Update and their mean duration
// in seconds, then starts a new period.
func (v *Viewer) frameStats() (frames int, avg float64) {
	frames = v.frames
	if frames > 0 {
		avg = v.frameTime / float64(frames)
	}
	v.frames, v.frameTime = 0, 0
	return frames, avg
}

// Render draws one frame. Presenting is done by Run.
func (v *Viewer) Render() {
	v.renderer.Frame(v.camera, v.buffers, v.radius)
}

// Run polls, handles, updates, renders and presents until a close request.
func (v *Viewer) Run() error {
	if v.closed {
		return fmt.Errorf("viewer is closed")
	}
	v.running = true

	lastTime := time.Now()
	fpsTimer := lastTime

	logger.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		v.events = v.surface.PollEvents(v.events[:0])
		for _, e := range v.events {
			v.HandleEvent(e)
		}
		if !v.running {
			break
		}

		v.Update(dt)
		v.Render()
		v.surface.SwapBuffers()

		if time.Since(fpsTimer) >= time.Second {
			fps, avg := v.frameStats()
			logger.Sugar.Debugf("fps %d, avg frame %.2fms", fps, avg*1000)
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases GPU resources while the context is alive, then the
// watcher and the surface. Calling it again is a no-op.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.running = false
	logger.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			logger.Warn("closing file watcher", zap.Error(err))
		}
		v.watcher = nil
	}
	v.radius.Release()
	v.buffers.Release()
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.surface != nil {
		v.surface.Close()
	}
}
