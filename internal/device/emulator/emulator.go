// Package emulator provides a GUI-based pointer surface using Ebitengine.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phinze/compassdeck/internal/device"
)

// Layout constants
const (
	surfaceWidth  = 800
	surfaceHeight = 480
	marginX       = 20
	marginY       = 12
	headerHeight  = 30
	footerHeight  = 30

	windowWidth  = 2*marginX + surfaceWidth
	windowHeight = headerHeight + marginY + surfaceHeight + footerHeight
)

// surfaceOrigin is the surface's top-left corner in window coordinates.
var surfaceOrigin = image.Pt(marginX, headerHeight+marginY)

// Emulator implements the device.Device interface using Ebitengine for GUI rendering.
type Emulator struct {
	mu sync.RWMutex

	// State
	open         bool
	brightness   byte
	surfaceImage *image.RGBA
	surfaceDirty bool

	handlers []device.PointerHandler

	// Ebitengine state
	game       *emulatorGame
	stopCh     chan struct{}
	errorCh    chan error
	listenDone chan struct{}
}

// New creates a new emulator instance.
func New() *Emulator {
	return &Emulator{
		brightness:   80,
		stopCh:       make(chan struct{}),
		surfaceImage: image.NewRGBA(image.Rect(0, 0, surfaceWidth, surfaceHeight)),
		surfaceDirty: true,
	}
}

// Open initializes the emulator.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: device is already open")
	}

	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close shuts down the emulator.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return fmt.Errorf("emulator: device is not open")
	}

	e.open = false
	close(e.stopCh)
	return nil
}

// IsOpen returns whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

// GetModelName returns the emulated model name.
func (e *Emulator) GetModelName() string {
	return "Compass Surface (Emulator)"
}

// GetSurfaceRectangle returns the surface dimensions.
func (e *Emulator) GetSurfaceRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, surfaceWidth, surfaceHeight), nil
}

// SetBrightness sets the display brightness.
func (e *Emulator) SetBrightness(perc byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = perc
	return nil
}

// SetSurfaceImage sets the surface image.
func (e *Emulator) SetSurfaceImage(img image.Image) error {
	rgba := image.NewRGBA(image.Rect(0, 0, surfaceWidth, surfaceHeight))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.surfaceImage = rgba
	e.surfaceDirty = true
	return nil
}

// AddPointerHandler registers a pointer handler.
func (e *Emulator) AddPointerHandler(fn device.PointerHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, fn)
	return nil
}

// Listen blocks until the emulator is closed.
// For the emulator, the actual event loop runs via RunGUI() which must be called from main.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	e.errorCh = errCh
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	done := e.listenDone
	e.mu.Unlock()

	// Block until GUI is closed
	<-done
	return nil
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window is closed.
func (e *Emulator) RunGUI() error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	e.game = &emulatorGame{emu: e}
	e.game.pointer.Offset = surfaceOrigin
	e.mu.Unlock()

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Compass Emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	// Run the game loop (this blocks until the window is closed)
	err := ebiten.RunGame(e.game)

	// Signal Listen() to unblock
	close(e.listenDone)
	return err
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu *Emulator

	surface *ebiten.Image
	border  *ebiten.Image

	pointer device.PointerTracker
	touch   bool
	touchID ebiten.TouchID
	touches []ebiten.TouchID
}

func (g *emulatorGame) Update() error {
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	g.handleInput()
	return nil
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	g.emu.mu.Lock()
	if g.emu.surfaceDirty || g.surface == nil {
		if g.surface != nil {
			g.surface.Deallocate()
		}
		g.surface = ebiten.NewImageFromImage(g.emu.surfaceImage)
		g.emu.surfaceDirty = false
	}
	brightness := float32(g.emu.brightness) / 100.0
	g.emu.mu.Unlock()

	ebitenutil.DebugPrintAt(screen, "Compass Emulator", windowWidth/2-48, 8)

	if g.border == nil {
		g.border = ebiten.NewImage(surfaceWidth+4, surfaceHeight+4)
		g.border.Fill(color.RGBA{60, 60, 60, 255})
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(marginX-2, headerHeight+marginY-2)
	screen.DrawImage(g.border, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(marginX, headerHeight+marginY)
	op.ColorScale.Scale(brightness, brightness, brightness, 1)
	screen.DrawImage(g.surface, op)

	ebitenutil.DebugPrintAt(screen, "Press and drag anywhere on the surface", 10, windowHeight-18)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

// handleInput turns the left mouse button or the first touch into pointer
// signals. Only one pointer is tracked at a time.
func (g *emulatorGame) handleInput() {
	if !ebiten.IsFocused() {
		if ev, ok := g.pointer.Cancel(); ok {
			g.touch = false
			g.dispatch(ev)
		}
		return
	}

	var (
		pos     image.Point
		pressed bool
	)
	switch {
	case g.pointer.Down() && g.touch:
		pos = g.pointer.Last()
		g.touches = ebiten.AppendTouchIDs(g.touches[:0])
		for _, id := range g.touches {
			if id == g.touchID {
				x, y := ebiten.TouchPosition(id)
				pos, pressed = image.Pt(x, y), true
				break
			}
		}
		if !pressed {
			g.touch = false
		}
	case g.pointer.Down():
		x, y := ebiten.CursorPosition()
		pos = image.Pt(x, y)
		pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	default:
		if ids := inpututil.AppendJustPressedTouchIDs(g.touches[:0]); len(ids) > 0 {
			x, y := ebiten.TouchPosition(ids[0])
			if surfaceContains(image.Pt(x, y)) {
				g.touch = true
				g.touchID = ids[0]
				pos, pressed = image.Pt(x, y), true
			}
		} else if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			if surfaceContains(image.Pt(x, y)) {
				pos, pressed = image.Pt(x, y), true
			}
		}
	}

	if ev, ok := g.pointer.Step(pos, pressed); ok {
		g.dispatch(ev)
	}
}

func (g *emulatorGame) dispatch(ev device.PointerEvent) {
	g.emu.mu.RLock()
	handlers := g.emu.handlers
	errCh := g.emu.errorCh
	g.emu.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(g.emu, ev.Action, ev.Point); err != nil {
			if errCh == nil {
				log.Printf("Pointer handler error: %v", err)
				continue
			}
			select {
			case errCh <- err:
			default:
			}
		}
	}
}

func surfaceContains(screen image.Point) bool {
	return screen.Sub(surfaceOrigin).In(image.Rect(0, 0, surfaceWidth, surfaceHeight))
}
