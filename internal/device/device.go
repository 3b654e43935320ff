// Package device defines the abstraction layer for pointer surfaces that drive
// the compass: the Stream Deck touch strip and the desktop emulator.
package device

import (
	"image"
)

// Device is the interface that abstracts a pointer surface.
// Both the real hardware adapter and the emulator implement this interface.
type Device interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Device info
	GetModelName() string
	GetSurfaceRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetSurfaceImage(img image.Image) error

	// Event handlers
	AddPointerHandler(fn PointerHandler) error

	// Event loop
	Listen(errCh chan error) error
}

// PointerAction identifies a pointer signal.
type PointerAction byte

// Pointer actions
const (
	POINTER_PRESS PointerAction = iota + 1
	POINTER_MOVE
	POINTER_RELEASE
	// POINTER_CANCEL is sent when the surface loses the pointer without a
	// release (focus loss, key interrupt).
	POINTER_CANCEL
)

func (a PointerAction) String() string {
	switch a {
	case POINTER_PRESS:
		return "press"
	case POINTER_MOVE:
		return "move"
	case POINTER_RELEASE:
		return "release"
	case POINTER_CANCEL:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerHandler is called for every pointer signal, in order. The point is
// in surface coordinates; it is the last known position for release and
// cancel.
type PointerHandler func(d Device, action PointerAction, p image.Point) error
