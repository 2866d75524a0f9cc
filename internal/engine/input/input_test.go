package input

import "testing"

func TestQueueDrain(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Type: EventMouseMove, X: 1, Y: 2})
	q.Push(Event{Type: EventKeyDown, Key: KeyF1})

	if q.Len() != 2 {
		t.Fatalf("expected 2 queued events, got %d", q.Len())
	}

	got := q.Drain(nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 drained events, got %d", len(got))
	}
	if got[0].Type != EventMouseMove || got[1].Key != KeyF1 {
		t.Errorf("events out of order: %+v", got)
	}
	if q.Len() != 0 {
		t.Errorf("queue should be empty after drain, got %d", q.Len())
	}

	// Drained slice must not alias the queue's storage.
	q.Push(Event{Type: EventQuit})
	if got[0].Type != EventMouseMove {
		t.Errorf("drained events were overwritten by a later push")
	}
}

func TestQueueDrainAppends(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Type: EventQuit})

	dst := []Event{{Type: EventFocusLost}}
	dst = q.Drain(dst)
	if len(dst) != 2 || dst[0].Type != EventFocusLost || dst[1].Type != EventQuit {
		t.Errorf("unexpected drain result: %+v", dst)
	}
}

func TestHasQuit(t *testing.T) {
	if HasQuit(nil) {
		t.Error("no events should not quit")
	}
	events := []Event{{Type: EventMouseMove}, {Type: EventQuit}}
	if !HasQuit(events) {
		t.Error("expected quit to be detected")
	}
}

func TestIsKeyPressed(t *testing.T) {
	events := []Event{
		{Type: EventKeyUp, Key: KeyF1},
		{Type: EventKeyDown, Key: KeyEscape},
	}

	tests := []struct {
		key  Key
		want bool
	}{
		{KeyEscape, true},
		{KeyF1, false}, // released, not pressed
		{KeyF2, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			if got := IsKeyPressed(events, tt.key); got != tt.want {
				t.Errorf("IsKeyPressed(%s) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
