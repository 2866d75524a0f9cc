package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/logger"
)

// SDLWindow wraps an SDL2 window and its OpenGL context.
type SDLWindow struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

var _ Surface = (*SDLWindow)(nil)

// OpenSDL creates an SDL2 window with an OpenGL context.
func OpenSDL(cfg Config) (*SDLWindow, error) {
	w := &SDLWindow{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window.
	// 4.1 Core is the max supported on macOS and the first with tessellation
	// that every desktop driver ships.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	logger.Info("window created",
		zap.String("backend", BackendSDL),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *SDLWindow) Close() {
	if w.sdlWindow == nil {
		return
	}
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	w.sdlWindow.Destroy()
	w.sdlWindow = nil

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *SDLWindow) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the current window size.
func (w *SDLWindow) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size in pixels.
func (w *SDLWindow) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *SDLWindow) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// PollEvents drains the SDL queue into input events.
func (w *SDLWindow) PollEvents(dst []input.Event) []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translateSDL(event); ok {
			dst = append(dst, e)
		}
	}
	return dst
}

func translateSDL(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return input.Event{Type: input.EventFocusLost}, true
		case sdl.WINDOWEVENT_CLOSE:
			return input.Event{Type: input.EventQuit}, true
		}

	case *sdl.KeyboardEvent:
		key := sdlKey(e.Keysym.Scancode)
		if key == input.KeyUnknown {
			return input.Event{}, false
		}
		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat == 0:
			return input.Event{Type: input.EventKeyDown, Key: key}, true
		case e.Type == sdl.KEYUP:
			return input.Event{Type: input.EventKeyUp, Key: key}, true
		}

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type: input.EventMouseMove,
			X:    float64(e.X),
			Y:    float64(e.Y),
		}, true

	case *sdl.MouseButtonEvent:
		button := sdlButton(e.Button)
		if button == input.ButtonNone {
			return input.Event{}, false
		}
		typ := input.EventMouseDown
		if e.Type == sdl.MOUSEBUTTONUP {
			typ = input.EventMouseUp
		}
		return input.Event{
			Type:   typ,
			Button: button,
			X:      float64(e.X),
			Y:      float64(e.Y),
		}, true

	case *sdl.MouseWheelEvent:
		delta := float64(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			delta = -delta
		}
		return input.Event{Type: input.EventScroll, Scroll: delta}, true
	}
	return input.Event{}, false
}

func sdlKey(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	case sdl.SCANCODE_F1:
		return input.KeyF1
	case sdl.SCANCODE_F2:
		return input.KeyF2
	case sdl.SCANCODE_F12:
		return input.KeyF12
	case sdl.SCANCODE_R:
		return input.KeyR
	case sdl.SCANCODE_HOME:
		return input.KeyHome
	default:
		return input.KeyUnknown
	}
}

func sdlButton(b uint8) input.MouseButton {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonPrimary
	case sdl.BUTTON_RIGHT:
		return input.ButtonSecondary
	case sdl.BUTTON_MIDDLE:
		return input.ButtonTertiary
	default:
		return input.ButtonNone
	}
}
