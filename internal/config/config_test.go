package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1024 || cfg.Window.Height != 768 {
		t.Errorf("expected 1024x768, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Window.Backend != BackendSDL {
		t.Errorf("expected backend %q, got %q", BackendSDL, cfg.Window.Backend)
	}

	if cfg.Camera.FOV != 45 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 1000 {
		t.Errorf("unexpected camera intrinsics: %+v", cfg.Camera)
	}
	if cfg.Camera.Position != [3]float32{0, 0, 10} {
		t.Errorf("expected camera at (0, 0, 10), got %v", cfg.Camera.Position)
	}

	if cfg.Navigation.MeshScale != 1 {
		t.Errorf("expected mesh scale 1, got %f", cfg.Navigation.MeshScale)
	}

	if cfg.Render.Primitive != PrimitivePatches || cfg.Render.PatchVertices != 4 {
		t.Errorf("expected patches of 4, got %s/%d", cfg.Render.Primitive, cfg.Render.PatchVertices)
	}
	if cfg.Render.RadiusSamples != 64 {
		t.Errorf("expected 64 radius samples, got %d", cfg.Render.RadiusSamples)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  backend: glfw

mesh:
  path: "models/trellis.obj"
  watch: true

camera:
  fov: 60
  near: 0.5
  far: 200
  position: [1, 2, 30]

navigation:
  mesh_scale: 4
  auto_scale: true

render:
  primitive: triangles
  shader_dir: "shaders"
  clear_color: [0, 0, 0, 1]

logging:
  level: "debug"
  log_file: "meshview.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen || cfg.Window.VSync {
		t.Errorf("expected fullscreen without vsync, got %+v", cfg.Window)
	}
	if cfg.Window.Backend != BackendGLFW {
		t.Errorf("expected glfw backend, got %s", cfg.Window.Backend)
	}
	if cfg.Mesh.Path != "models/trellis.obj" || !cfg.Mesh.Watch {
		t.Errorf("unexpected mesh config: %+v", cfg.Mesh)
	}
	if cfg.Camera.FOV != 60 || cfg.Camera.Near != 0.5 || cfg.Camera.Far != 200 {
		t.Errorf("unexpected camera config: %+v", cfg.Camera)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 30} {
		t.Errorf("expected position (1, 2, 30), got %v", cfg.Camera.Position)
	}
	if cfg.Navigation.MeshScale != 4 || !cfg.Navigation.AutoScale {
		t.Errorf("unexpected navigation config: %+v", cfg.Navigation)
	}
	if cfg.Render.Primitive != PrimitiveTriangles || cfg.Render.ShaderDir != "shaders" {
		t.Errorf("unexpected render config: %+v", cfg.Render)
	}
	if cfg.Render.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("expected black clear color, got %v", cfg.Render.ClearColor)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Render.PatchVertices != 4 {
		t.Errorf("expected default patch_vertices 4, got %d", cfg.Render.PatchVertices)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "meshview.log" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad syntax", "window:\n  width: not a number\n  invalid syntax here\n"},
		{"unknown key", "window:\n  widht: 800\n"},
		{"wrong type", "camera:\n  position: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, []byte("\n  \n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Window.Width != 1024 {
		t.Errorf("empty file changed defaults: %+v", cfg.Window)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/meshview.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"bad backend", func(c *Config) { c.Window.Backend = "x11" }, "window backend"},
		{"empty mesh", func(c *Config) { c.Mesh.Path = "" }, "mesh path"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 180 }, "fov"},
		{"near beyond far", func(c *Config) { c.Camera.Near = 2000 }, "clip planes"},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }, "clip planes"},
		{"zero mesh scale", func(c *Config) { c.Navigation.MeshScale = 0 }, "mesh_scale"},
		{"bad primitive", func(c *Config) { c.Render.Primitive = "lines" }, "primitive"},
		{"zero patch size", func(c *Config) { c.Render.PatchVertices = 0 }, "patch_vertices"},
		{"zero radius samples", func(c *Config) { c.Render.RadiusSamples = 0 }, "radius_samples"},
		{"bad screenshot format", func(c *Config) { c.Screenshot.Format = "gif" }, "screenshot format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateTrianglesIgnoresPatchSize(t *testing.T) {
	cfg := Default()
	cfg.Render.Primitive = PrimitiveTriangles
	cfg.Render.PatchVertices = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("triangles mode should not need patch_vertices: %v", err)
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Render.Primitive = "points"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "window size") || !strings.Contains(err.Error(), "primitive") {
		t.Errorf("expected both problems reported, got %q", err.Error())
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "mesh flag",
			setup: func() { *flagMesh = "bunny.obj" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mesh.Path != "bunny.obj" {
					t.Errorf("expected mesh bunny.obj, got %s", cfg.Mesh.Path)
				}
			},
			teardown: func() { *flagMesh = "" },
		},
		{
			name:  "backend flag",
			setup: func() { *flagBackend = BackendGLFW },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Backend != BackendGLFW {
					t.Errorf("expected glfw backend, got %s", cfg.Window.Backend)
				}
			},
			teardown: func() { *flagBackend = "" },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "watch flag",
			setup: func() { *flagWatch = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Mesh.Watch {
					t.Error("expected watch to be enabled")
				}
			},
			teardown: func() { *flagWatch = false },
		},
		{
			name:  "primitive flag",
			setup: func() { *flagPrimitive = PrimitiveTriangles },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Primitive != PrimitiveTriangles {
					t.Errorf("expected triangles, got %s", cfg.Render.Primitive)
				}
			},
			teardown: func() { *flagPrimitive = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from the flag, height from the file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("camera:\n  near: 10\n  far: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid clip planes to fail Load")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", FileName)

	cfg := Default()
	cfg.Mesh.Path = "saved.obj"
	cfg.Navigation.MeshScale = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Mesh.Path != "saved.obj" || loaded.Navigation.MeshScale != 3 {
		t.Errorf("saved values not restored: mesh %s, scale %f", loaded.Mesh.Path, loaded.Navigation.MeshScale)
	}
}

func TestPersist(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("user config dir is only redirectable through XDG_CONFIG_HOME on linux")
	}
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	tests := []struct {
		name       string
		configFlag string
		want       string
	}{
		{"config flag", filepath.Join(tmpDir, "explicit", FileName), filepath.Join(tmpDir, "explicit", FileName)},
		{"user dir", "", filepath.Join(tmpDir, "xdg", "meshview", FileName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*flagConfig = tt.configFlag
			defer func() { *flagConfig = "" }()

			cfg := Default()
			cfg.Render.Primitive = PrimitiveTriangles
			path, err := cfg.Persist()
			if err != nil {
				t.Fatalf("Persist failed: %v", err)
			}
			if path != tt.want {
				t.Errorf("Persist wrote %s, want %s", path, tt.want)
			}

			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("failed to reload persisted config: %v", err)
			}
			if loaded.Render.Primitive != PrimitiveTriangles {
				t.Errorf("primitive = %q, want %q", loaded.Render.Primitive, PrimitiveTriangles)
			}
		})
	}
}

func TestSaveRequested(t *testing.T) {
	if SaveRequested() {
		t.Fatal("save-config should default to false")
	}
	*flagSaveConfig = true
	defer func() { *flagSaveConfig = false }()
	if !SaveRequested() {
		t.Error("SaveRequested() = false after --save-config")
	}
}

func TestSaveToUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// A regular file where a directory is needed.
	if err := Default().SaveTo(filepath.Join(blocker, "sub", FileName)); err == nil {
		t.Error("expected error saving below a regular file")
	}
}

func TestLoadSaveConfigNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", FileName)
	*flagConfig = path
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Fatal("expected a missing --config file to fail Load")
	}

	*flagSaveConfig = true
	defer func() { *flagSaveConfig = false }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with --save-config: %v", err)
	}
	written, err := cfg.Persist()
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if written != path {
		t.Errorf("Persist wrote %s, want %s", written, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not created: %v", err)
	}
}
