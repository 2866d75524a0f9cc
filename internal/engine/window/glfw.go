package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/logger"
)

// GLFWWindow wraps a GLFW window. Callbacks queue events until PollEvents.
type GLFWWindow struct {
	config Config
	window *glfw.Window
	queue  *input.Queue
}

var _ Surface = (*GLFWWindow)(nil)

// OpenGLFW creates a GLFW window with an OpenGL context.
func OpenGLFW(cfg Config) (*GLFWWindow, error) {
	logger.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw.Init failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	width, height := cfg.Width, cfg.Height
	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &GLFWWindow{
		config: cfg,
		window: win,
		queue:  input.NewQueue(),
	}
	w.installCallbacks()

	logger.Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

func (w *GLFWWindow) installCallbacks() {
	q := w.queue

	w.window.SetCloseCallback(func(_ *glfw.Window) {
		q.Push(input.Event{Type: input.EventQuit})
	})

	w.window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		q.Push(input.Event{Type: input.EventWindowResize, Width: width, Height: height})
	})

	w.window.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			q.Push(input.Event{Type: input.EventFocusLost})
		}
	})

	w.window.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		q.Push(input.Event{Type: input.EventMouseMove, X: xpos, Y: ypos})
	})

	w.window.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := win.GetCursorPos()
		if e, ok := translateGLFWButton(button, action, x, y); ok {
			q.Push(e)
		}
	})

	w.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		q.Push(input.Event{Type: input.EventScroll, Scroll: yoff})
	})

	w.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if e, ok := translateGLFWKey(key, action); ok {
			q.Push(e)
		}
	})
}

// Close destroys the window and terminates GLFW.
func (w *GLFWWindow) Close() {
	if w.window == nil {
		return
	}
	logger.Info("closing window")
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *GLFWWindow) SwapBuffers() {
	w.window.SwapBuffers()
}

// Size returns the current window size.
func (w *GLFWWindow) Size() (int, int) {
	return w.window.GetSize()
}

// DrawableSize returns the framebuffer size in pixels.
func (w *GLFWWindow) DrawableSize() (int, int) {
	return w.window.GetFramebufferSize()
}

// SetTitle sets the window title.
func (w *GLFWWindow) SetTitle(title string) {
	w.window.SetTitle(title)
}

// PollEvents runs the GLFW callbacks and drains what they queued.
func (w *GLFWWindow) PollEvents(dst []input.Event) []input.Event {
	glfw.PollEvents()
	return w.queue.Drain(dst)
}

func translateGLFWKey(key glfw.Key, action glfw.Action) (input.Event, bool) {
	k := glfwKey(key)
	if k == input.KeyUnknown {
		return input.Event{}, false
	}
	switch action {
	case glfw.Press:
		return input.Event{Type: input.EventKeyDown, Key: k}, true
	case glfw.Release:
		return input.Event{Type: input.EventKeyUp, Key: k}, true
	default:
		// glfw.Repeat
		return input.Event{}, false
	}
}

func translateGLFWButton(button glfw.MouseButton, action glfw.Action, x, y float64) (input.Event, bool) {
	b := glfwButton(button)
	if b == input.ButtonNone {
		return input.Event{}, false
	}
	typ := input.EventMouseDown
	if action == glfw.Release {
		typ = input.EventMouseUp
	}
	return input.Event{Type: typ, Button: b, X: x, Y: y}, true
}

func glfwKey(key glfw.Key) input.Key {
	switch key {
	case glfw.KeyEscape:
		return input.KeyEscape
	case glfw.KeyF1:
		return input.KeyF1
	case glfw.KeyF2:
		return input.KeyF2
	case glfw.KeyF12:
		return input.KeyF12
	case glfw.KeyR:
		return input.KeyR
	case glfw.KeyHome:
		return input.KeyHome
	default:
		return input.KeyUnknown
	}
}

func glfwButton(button glfw.MouseButton) input.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return input.ButtonPrimary
	case glfw.MouseButtonRight:
		return input.ButtonSecondary
	case glfw.MouseButtonMiddle:
		return input.ButtonTertiary
	default:
		return input.ButtonNone
	}
}
