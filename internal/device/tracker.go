package device

import "image"

// PointerEvent is one edge-triggered pointer signal.
type PointerEvent struct {
	Action PointerAction
	Point  image.Point
}

// PointerTracker turns per-frame pressed/position samples, as polled by a
// game loop, into press/move/release signals. Offset is subtracted from every
// sample to convert screen coordinates to surface coordinates.
type PointerTracker struct {
	Offset image.Point

	down bool
	last image.Point
}

// Down reports whether a pointer is currently held.
func (t *PointerTracker) Down() bool {
	return t.down
}

// Last returns the last sampled position in screen coordinates.
func (t *PointerTracker) Last() image.Point {
	return t.last
}

// Step consumes one frame's sample. Moves are only reported when the
// position actually changed; release reports the last held position.
func (t *PointerTracker) Step(screen image.Point, pressed bool) (PointerEvent, bool) {
	switch {
	case pressed && !t.down:
		t.down = true
		t.last = screen
		return PointerEvent{POINTER_PRESS, screen.Sub(t.Offset)}, true
	case pressed && t.down:
		if screen == t.last {
			return PointerEvent{}, false
		}
		t.last = screen
		return PointerEvent{POINTER_MOVE, screen.Sub(t.Offset)}, true
	case !pressed && t.down:
		t.down = false
		return PointerEvent{POINTER_RELEASE, t.last.Sub(t.Offset)}, true
	}
	return PointerEvent{}, false
}

// Cancel drops an in-progress gesture, e.g. when the window loses focus.
func (t *PointerTracker) Cancel() (PointerEvent, bool) {
	if !t.down {
		return PointerEvent{}, false
	}
	t.down = false
	return PointerEvent{POINTER_CANCEL, t.last.Sub(t.Offset)}, true
}
