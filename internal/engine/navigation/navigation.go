// Package navigation turns pointer drags into camera orbit, pan and zoom.
//
// A gesture starts on a button press, follows the pointer while the button is
// held and ends on that button's release. Each move recomputes the camera
// from the snapshot taken at press time, so the result only depends on the
// distance dragged, never on how many move events arrived.
package navigation

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/input"
)

// Drag speed factors.
const (
	orbitSpeed = float32(gomath.Pi) // radians per normalised unit
	panSpeed   = 10                 // world units per normalised unit, before mesh scale
	zoomSpeed  = 10
)

// Gesture identifies the active interaction.
type Gesture int

const (
	Idle Gesture = iota
	Orbiting
	Panning
	Zooming
)

// String returns the gesture name.
func (g Gesture) String() string {
	switch g {
	case Idle:
		return "Idle"
	case Orbiting:
		return "Orbiting"
	case Panning:
		return "Panning"
	case Zooming:
		return "Zooming"
	default:
		return fmt.Sprintf("Gesture(%d)", int(g))
	}
}

// Target is the camera state the controller reads and writes.
type Target interface {
	Position() mgl32.Vec3
	SetPosition(mgl32.Vec3)
	Rotation() mgl32.Vec3
	SetRotation(mgl32.Vec3)
}

// state is one of idle, orbiting, panning or zooming.
type state interface {
	gesture() Gesture
	button() input.MouseButton
}

type pointer struct{ x, y float64 }

type idle struct{}

type orbiting struct {
	origin   pointer
	rotation mgl32.Vec3
}

type panning struct {
	origin   pointer
	position mgl32.Vec3
}

type zooming struct {
	origin   pointer
	position mgl32.Vec3
}

func (idle) gesture() Gesture     { return Idle }
func (orbiting) gesture() Gesture { return Orbiting }
func (panning) gesture() Gesture  { return Panning }
func (zooming) gesture() Gesture  { return Zooming }

func (idle) button() input.MouseButton     { return input.ButtonNone }
func (orbiting) button() input.MouseButton { return input.ButtonPrimary }
func (panning) button() input.MouseButton  { return input.ButtonSecondary }
func (zooming) button() input.MouseButton  { return input.ButtonTertiary }

// Controller is the drag state machine.
type Controller struct {
	// MeshScale scales pan and zoom so navigation speed matches model size.
	MeshScale float32

	state state
}

// New creates an idle controller.
func New(meshScale float32) *Controller {
	return &Controller{
		MeshScale: meshScale,
		state:     idle{},
	}
}

// Gesture returns the active gesture.
func (c *Controller) Gesture() Gesture {
	if c.state == nil {
		return Idle
	}
	return c.state.gesture()
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	return c.Gesture() != Idle
}

// Press starts the gesture bound to button at pointer (x, y).
// It is ignored while any gesture is active.
func (c *Controller) Press(button input.MouseButton, x, y float64, t Target) {
	if c.Active() {
		return
	}

	origin := pointer{x, y}
	switch button {
	case input.ButtonPrimary:
		c.state = orbiting{origin: origin, rotation: t.Rotation()}
	case input.ButtonSecondary:
		c.state = panning{origin: origin, position: t.Position()}
	case input.ButtonTertiary:
		c.state = zooming{origin: origin, position: t.Position()}
	}
}

// Release ends the active gesture if button is the one that started it.
func (c *Controller) Release(button input.MouseButton) {
	if c.Active() && c.state.button() == button {
		c.state = idle{}
	}
}

// Cancel drops any active gesture, leaving the camera where it is.
func (c *Controller) Cancel() {
	c.state = idle{}
}

// Move applies the drag from the gesture origin to (x, y).
// width and height are the window size used to normalise the drag.
func (c *Controller) Move(x, y float64, width, height int, t Target) {
	if !c.Active() {
		return
	}

	norm := float64((width + height) / 2)
	if norm <= 0 {
		return
	}

	switch s := c.state.(type) {
	case orbiting:
		dx, dy := s.origin.delta(x, y, norm)
		t.SetRotation(s.rotation.Add(mgl32.Vec3{-dy * orbitSpeed, dx * orbitSpeed, 0}))
	case panning:
		dx, dy := s.origin.delta(x, y, norm)
		t.SetPosition(s.position.Add(mgl32.Vec3{panSpeed * dx, panSpeed * dy, 0}.Mul(c.MeshScale)))
	case zooming:
		_, dy := s.origin.delta(x, y, norm)
		t.SetPosition(s.position.Add(mgl32.Vec3{0, 0, zoomSpeed * dy}.Mul(c.MeshScale)))
	}
}

// Scroll dollies the camera along Z by one mesh-scale unit per wheel step.
// Ignored during a drag, which already owns the camera position.
func (c *Controller) Scroll(delta float64, t Target) {
	if c.Active() || delta == 0 {
		return
	}
	p := t.Position()
	p[2] -= float32(delta) * c.MeshScale
	t.SetPosition(p)
}

// Handle routes a pointer event to Press, Release, Move or Scroll.
// It returns false for events that are not pointer events.
func (c *Controller) Handle(e input.Event, width, height int, t Target) bool {
	switch e.Type {
	case input.EventMouseDown:
		c.Press(e.Button, e.X, e.Y, t)
	case input.EventMouseUp:
		c.Release(e.Button)
	case input.EventMouseMove:
		c.Move(e.X, e.Y, width, height, t)
	case input.EventScroll:
		c.Scroll(e.Scroll, t)
	default:
		return false
	}
	return true
}

// delta returns the normalised drag: dx grows leftwards, dy grows downwards.
func (p pointer) delta(x, y, norm float64) (dx, dy float32) {
	return float32((p.x - x) / norm), float32((y - p.y) / norm)
}
