package device

import (
	"image"
	"time"

	"rafaelmartins.com/p/streamdeck"
)

// longTapFactor stretches SwipeHold for long taps.
const longTapFactor = 2

// HardwareDevice adapts a Stream Deck Plus touch strip to the Device
// interface. The strip only reports finished taps and swipes, so each one is
// replayed as a press/move/release sequence with the release delayed by the
// hold duration; the stick stays deflected long enough to be polled.
type HardwareDevice struct {
	dev    *streamdeck.Device
	hold   time.Duration
	replay gestureReplay
}

// NewHardware creates a new hardware device wrapper.
func NewHardware(dev *streamdeck.Device, hold time.Duration) *HardwareDevice {
	h := &HardwareDevice{dev: dev, hold: hold}
	h.replay.src = h
	return h
}

// Open opens the device for use.
func (h *HardwareDevice) Open() error {
	return h.dev.Open()
}

// Close drops any held gesture and closes the device.
func (h *HardwareDevice) Close() error {
	h.replay.stop()
	return h.dev.Close()
}

// IsOpen returns whether the device is open.
func (h *HardwareDevice) IsOpen() bool {
	return h.dev.IsOpen()
}

// GetModelName returns the device model name.
func (h *HardwareDevice) GetModelName() string {
	return h.dev.GetModelName()
}

// GetSurfaceRectangle returns the touch strip dimensions.
func (h *HardwareDevice) GetSurfaceRectangle() (image.Rectangle, error) {
	return h.dev.GetTouchStripImageRectangle()
}

// SetBrightness sets the device brightness.
func (h *HardwareDevice) SetBrightness(perc byte) error {
	return h.dev.SetBrightness(perc)
}

// SetSurfaceImage sets the touch strip image.
func (h *HardwareDevice) SetSurfaceImage(img image.Image) error {
	return h.dev.SetTouchStripImage(img)
}

// AddPointerHandler registers fn and, on first use, hooks the strip and key
// events it is synthesised from.
func (h *HardwareDevice) AddPointerHandler(fn PointerHandler) error {
	if !h.replay.add(fn) {
		return nil
	}

	if err := h.dev.AddTouchStripTouchHandler(func(d *streamdeck.Device, t streamdeck.TouchStripTouchType, p image.Point) error {
		return h.replay.gesture(p, p, tapHold(h.hold, t == streamdeck.TOUCH_STRIP_TOUCH_TYPE_LONG))
	}); err != nil {
		return err
	}

	if err := h.dev.AddTouchStripSwipeHandler(func(d *streamdeck.Device, origin, destination image.Point) error {
		return h.replay.gesture(origin, destination, h.hold)
	}); err != nil {
		return err
	}

	// Any key interrupts the held gesture.
	return h.dev.ForEachKey(func(k streamdeck.KeyID) error {
		return h.dev.AddKeyHandler(k, func(d *streamdeck.Device, key *streamdeck.Key) error {
			return h.replay.cancel()
		})
	})
}

// tapHold returns the hold for a tap; long taps hold longer.
func tapHold(hold time.Duration, long bool) time.Duration {
	if long {
		return hold * longTapFactor
	}
	return hold
}

// Listen starts the device event loop.
func (h *HardwareDevice) Listen(errCh chan error) error {
	return h.dev.Listen(errCh)
}

// Underlying returns the underlying streamdeck.Device for direct access when needed.
func (h *HardwareDevice) Underlying() *streamdeck.Device {
	return h.dev
}
