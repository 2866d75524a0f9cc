package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagMesh       = flag.String("mesh", "", "Path to the mesh file (also accepted as the first argument)")
	flagBackend    = flag.String("backend", "", "Window backend: sdl or glfw")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagWatch      = flag.Bool("watch", false, "Reload the mesh when the file changes")
	flagPrimitive  = flag.String("primitive", "", "Draw mode: patches or triangles")
	flagSaveConfig = flag.Bool("save-config", false, "Write the merged config to the --config path (or the user config dir) and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// meshArg returns the mesh path from the command line, the positional
// argument winning over --mesh.
func meshArg() string {
	if flag.NArg() > 0 {
		return flag.Arg(0)
	}
	return *flagMesh
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if path := meshArg(); path != "" {
		cfg.Mesh.Path = path
	}
	if *flagBackend != "" {
		cfg.Window.Backend = *flagBackend
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagWatch {
		cfg.Mesh.Watch = true
	}
	if *flagPrimitive != "" {
		cfg.Render.Primitive = *flagPrimitive
	}
}
