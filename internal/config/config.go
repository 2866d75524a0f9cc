// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshview/internal/logger"
)

// Window backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Primitive modes for the mesh draw call.
const (
	PrimitivePatches   = "patches"   // tessellation pipeline, PatchVertices control points per patch
	PrimitiveTriangles = "triangles" // vertex + fragment stages only
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Camera     CameraConfig     `yaml:"camera"`
	Navigation NavigationConfig `yaml:"navigation"`
	Render     RenderConfig     `yaml:"render"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Backend    string `yaml:"backend"` // "sdl" or "glfw"
}

// MeshConfig holds the mesh source.
type MeshConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // Reload when the file changes on disk
}

// CameraConfig holds the camera intrinsics and home pose.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"` // Degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"` // Radians
}

// NavigationConfig holds mouse navigation settings.
type NavigationConfig struct {
	MeshScale float32 `yaml:"mesh_scale"`
	AutoScale bool    `yaml:"auto_scale"` // Derive mesh_scale from the mesh bounds
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	Primitive     string     `yaml:"primitive"`
	PatchVertices int        `yaml:"patch_vertices"`
	ShaderDir     string     `yaml:"shader_dir"` // Empty uses the embedded shaders
	ClearColor    [4]float32 `yaml:"clear_color"`
	Wireframe     bool       `yaml:"wireframe"`
	CullFaces     bool       `yaml:"cull_faces"`
	RadiusSamples int        `yaml:"radius_samples"` // Entries in the fiber radius lookup texture
	RadiusSeed    int64      `yaml:"radius_seed"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"` // "png" or "bmp"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "meshview",
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			Backend:    BackendSDL,
		},
		Mesh: MeshConfig{
			Path:  "models/model.obj",
			Watch: false,
		},
		Camera: CameraConfig{
			FOV:      45,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{0, 0, 10},
		},
		Navigation: NavigationConfig{
			MeshScale: 1,
			AutoScale: false,
		},
		Render: RenderConfig{
			Primitive:     PrimitivePatches,
			PatchVertices: 4,
			ClearColor:    [4]float32{1, 1, 1, 1},
			CullFaces:     true,
			RadiusSamples: 64,
			RadiusSeed:    1,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "meshview",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.Backend != BackendSDL && c.Window.Backend != BackendGLFW {
		errs = append(errs, fmt.Errorf("unknown window backend %q", c.Window.Backend))
	}
	if c.Mesh.Path == "" {
		errs = append(errs, errors.New("mesh path is empty"))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180), got %g", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera clip planes need 0 < near < far, got %g..%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Navigation.MeshScale <= 0 {
		errs = append(errs, fmt.Errorf("navigation mesh_scale must be positive, got %g", c.Navigation.MeshScale))
	}
	switch c.Render.Primitive {
	case PrimitivePatches:
		if c.Render.PatchVertices <= 0 {
			errs = append(errs, fmt.Errorf("render patch_vertices must be positive, got %d", c.Render.PatchVertices))
		}
	case PrimitiveTriangles:
	default:
		errs = append(errs, fmt.Errorf("unknown render primitive %q", c.Render.Primitive))
	}
	if c.Render.RadiusSamples <= 0 {
		errs = append(errs, fmt.Errorf("render radius_samples must be positive, got %d", c.Render.RadiusSamples))
	}
	if c.Screenshot.Format != "png" && c.Screenshot.Format != "bmp" {
		errs = append(errs, fmt.Errorf("unknown screenshot format %q", c.Screenshot.Format))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
