// Package input defines platform-neutral input events.
// Window backends translate their native events into these.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFocusLost
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventScroll
)

// Key is a backend-independent key code. Only the keys the viewer binds are named.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyF1
	KeyF2
	KeyF12
	KeyR
	KeyHome
)

// String returns a short key name.
func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyF1:
		return "F1"
	case KeyF2:
		return "F2"
	case KeyF12:
		return "F12"
	case KeyR:
		return "R"
	case KeyHome:
		return "Home"
	default:
		return "Unknown"
	}
}

// MouseButton is a pointer button.
type MouseButton uint8

const (
	ButtonNone      MouseButton = iota
	ButtonPrimary               // left
	ButtonSecondary             // right
	ButtonTertiary              // middle
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Button MouseButton
	Width  int     // EventWindowResize
	Height int     // EventWindowResize
	X, Y   float64 // pointer position in window coordinates
	Scroll float64 // EventScroll, positive away from the user
}

// Queue collects events delivered by callbacks until the next drain.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain appends the queued events to dst, empties the queue and returns dst.
func (q *Queue) Drain(dst []Event) []Event {
	dst = append(dst, q.events...)
	q.events = q.events[:0]
	return dst
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}

// HasQuit reports whether events contains a quit request.
func HasQuit(events []Event) bool {
	for _, e := range events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// IsKeyPressed checks if a specific key was pressed in events.
func IsKeyPressed(events []Event, key Key) bool {
	for _, e := range events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}
