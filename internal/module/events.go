package module

import (
	"image"

	"github.com/phinze/compassdeck/internal/compass"
	"github.com/phinze/compassdeck/internal/device"
)

// PointerEventType indicates the type of pointer interaction.
type PointerEventType uint8

const (
	// PointerPress starts a gesture.
	PointerPress PointerEventType = iota + 1
	// PointerMove reports a new position for the active gesture.
	PointerMove
	// PointerRelease ends the gesture normally.
	PointerRelease
	// PointerCancel ends the gesture because the host lost the pointer.
	PointerCancel
)

func (t PointerEventType) String() string {
	switch t {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent represents a pointer interaction on the surface.
type PointerEvent struct {
	Type PointerEventType

	// Point is the pointer location in surface coordinates.
	Point image.Point
}

// CompassPoint converts Point to the compass coordinate type.
func (e PointerEvent) CompassPoint() compass.Point {
	return compass.Pt(float64(e.Point.X), float64(e.Point.Y))
}

// PointerEventFromDevice converts a device pointer signal to a PointerEvent.
func PointerEventFromDevice(action device.PointerAction, p image.Point) PointerEvent {
	var t PointerEventType
	switch action {
	case device.POINTER_PRESS:
		t = PointerPress
	case device.POINTER_MOVE:
		t = PointerMove
	case device.POINTER_RELEASE:
		t = PointerRelease
	default:
		t = PointerCancel
	}
	return PointerEvent{Type: t, Point: p}
}
