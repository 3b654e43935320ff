package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/phinze/compassdeck/internal/compass"
	"github.com/phinze/compassdeck/internal/config"
	"github.com/phinze/compassdeck/internal/device"
)

type fakeDevice struct {
	mu       sync.Mutex
	handlers []device.PointerHandler
	frames   int
	rectErr  error
	done     chan struct{}
}

func newFakeDevice(t *testing.T) *fakeDevice {
	d := &fakeDevice{done: make(chan struct{})}
	t.Cleanup(func() { close(d.done) })
	return d
}

func (d *fakeDevice) Open() error          { return nil }
func (d *fakeDevice) Close() error         { return nil }
func (d *fakeDevice) IsOpen() bool         { return true }
func (d *fakeDevice) GetModelName() string { return "fake" }
func (d *fakeDevice) GetSurfaceRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, 400, 200), d.rectErr
}
func (d *fakeDevice) SetBrightness(byte) error { return nil }
func (d *fakeDevice) SetSurfaceImage(image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames++
	return nil
}
func (d *fakeDevice) AddPointerHandler(fn device.PointerHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
	return nil
}
func (d *fakeDevice) Listen(chan error) error {
	<-d.done
	return nil
}

func (d *fakeDevice) emit(action device.PointerAction, p image.Point) {
	d.mu.Lock()
	handlers := d.handlers
	d.mu.Unlock()
	for _, fn := range handlers {
		fn(d, action, p)
	}
}

func (d *fakeDevice) ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers) > 0
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNew_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.Compass.MaxDistance = -1
	if _, err := New(newFakeDevice(t), cfg); !errors.Is(err, compass.ErrInvalidOptions) {
		t.Errorf("err = %v, want ErrInvalidOptions", err)
	}

	dev := newFakeDevice(t)
	dev.rectErr = errors.New("unplugged")
	if _, err := New(dev, config.Default()); err == nil {
		t.Error("expected error when the surface is unavailable")
	}
}

func TestTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Render.ThumbColor = "#102030"
	cfg.Render.BaseColor = "nonsense"

	theme := Theme(cfg)
	if theme.Thumb != (color.RGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Errorf("thumb = %v", theme.Thumb)
	}
	if theme.Base != (color.RGBA{90, 90, 90, 255}) {
		t.Errorf("base = %v, want default", theme.Base)
	}
}

func TestRun_DragSteersRover(t *testing.T) {
	dev := newFakeDevice(t)
	cfg := config.Default()
	cfg.Render.FPS = 200

	a, err := New(dev, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- a.Run(ctx, nil) }()

	waitFor(t, "pointer handler", dev.ready)

	dev.emit(device.POINTER_PRESS, image.Pt(200, 100))
	dev.emit(device.POINTER_MOVE, image.Pt(300, 100))

	snap := a.Stick.Snapshot()
	if !snap.Active || snap.Speed != (compass.Speed{X: -50}) {
		t.Fatalf("stick snapshot = %+v", snap)
	}

	waitFor(t, "rover to move", func() bool { return a.Rover.Position().X < 190 })

	dev.emit(device.POINTER_RELEASE, image.Pt(300, 100))
	if a.Stick.Snapshot().Active {
		t.Error("release should end the gesture")
	}

	cancel()
	select {
	case err := <-result:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRun_DoneChannel(t *testing.T) {
	dev := newFakeDevice(t)
	a, err := New(dev, config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan struct{})
	result := make(chan error, 1)
	go func() { result <- a.Run(context.Background(), done) }()

	waitFor(t, "pointer handler", dev.ready)
	dev.emit(device.POINTER_PRESS, image.Pt(10, 10))
	close(done)

	select {
	case <-result:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	if a.Stick.Snapshot().Active {
		t.Error("stopping should cancel the gesture")
	}
}
