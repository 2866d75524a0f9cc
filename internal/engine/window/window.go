// Package window creates the OpenGL window and translates its native
// events into input events.
package window

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/meshview/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Backend    string
}

// Surface is a window with a current OpenGL 4.1 core context.
type Surface interface {
	// Size returns the window size in screen coordinates, the space
	// pointer positions are reported in.
	Size() (width, height int)
	// DrawableSize returns the framebuffer size in pixels.
	DrawableSize() (width, height int)
	// PollEvents appends pending events to dst and returns it.
	PollEvents(dst []input.Event) []input.Event
	SwapBuffers()
	SetTitle(title string)
	// Close destroys the window. Calling it again is a no-op.
	Close()
}

// Open creates a window with the configured backend.
func Open(cfg Config) (Surface, error) {
	switch cfg.Backend {
	case BackendSDL, "":
		return OpenSDL(cfg)
	case BackendGLFW:
		return OpenGLFW(cfg)
	default:
		return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
	}
}
