// Package stick provides the on-screen joystick module: it feeds pointer
// gestures into a compass and draws the compass markers.
package stick

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/phinze/compassdeck/internal/compass"
	"github.com/phinze/compassdeck/internal/module"
	"github.com/phinze/compassdeck/internal/sprite"
)

// Sprite diameters in pixels.
const (
	BaseSize    = 96
	SegmentSize = 20
	ThumbSize   = 56
)

// Theme holds the marker colours.
type Theme struct {
	Base    color.RGBA
	Segment color.RGBA
	Thumb   color.RGBA
}

// DefaultTheme returns the stock marker colours.
func DefaultTheme() Theme {
	return Theme{
		Base:    color.RGBA{90, 90, 90, 255},
		Segment: color.RGBA{140, 140, 140, 255},
		Thumb:   color.RGBA{255, 200, 50, 255},
	}
}

type sprites struct {
	base    *image.RGBA
	segment *image.RGBA
	thumb   *image.RGBA
	reach   *image.RGBA
}

// Module implements the joystick surface module.
type Module struct {
	module.BaseModule

	theme Theme

	mu      sync.Mutex
	compass *compass.Compass
	sprites sprites
}

// New creates a stick module. It fails if opts are invalid.
func New(opts compass.Options, theme Theme) (*Module, error) {
	c, err := compass.New(opts)
	if err != nil {
		return nil, err
	}
	return &Module{
		BaseModule: module.NewBaseModule("stick"),
		theme:      theme,
		compass:    c,
	}, nil
}

// Init stores the region and rasterizes the marker sprites.
func (m *Module) Init(ctx context.Context, res module.Resources) error {
	if err := m.BaseModule.Init(ctx, res); err != nil {
		return err
	}

	s, err := m.renderSprites(res.Region)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sprites = s
	m.mu.Unlock()

	log.Printf("Stick module initialized (max distance %.0f, %d segments)",
		m.compass.Options().MaxDistance, m.compass.Options().SegmentCount)
	return nil
}

func (m *Module) renderSprites(region image.Rectangle) (sprites, error) {
	var s sprites
	var err error

	if s.base, err = sprite.Render(sprite.Circle(0), BaseSize, m.theme.Base); err != nil {
		return s, fmt.Errorf("base sprite: %w", err)
	}
	if s.segment, err = sprite.Render(sprite.Circle(0), SegmentSize, m.theme.Segment); err != nil {
		return s, fmt.Errorf("segment sprite: %w", err)
	}
	if s.thumb, err = sprite.Render(sprite.Circle(0), ThumbSize, m.theme.Thumb); err != nil {
		return s, fmt.Errorf("thumb sprite: %w", err)
	}

	// Faint ring showing how far the thumb can travel. It is skipped when it
	// cannot intersect the region from any press point inside it.
	if size, ok := reachSize(m.compass.Options().MaxDistance, region); ok {
		if s.reach, err = sprite.Render(sprite.Circle(1), size, m.theme.Base); err != nil {
			return s, fmt.Errorf("reach sprite: %w", err)
		}
	}
	return s, nil
}

// reachSize returns the reach ring diameter for maxDistance, or false when
// the ring radius exceeds the region diagonal.
func reachSize(maxDistance float64, region image.Rectangle) (int, bool) {
	diagonal := math.Hypot(float64(region.Dx()), float64(region.Dy()))
	if region.Empty() || maxDistance > diagonal {
		return 0, false
	}
	return int(math.Ceil(2*maxDistance)) + ThumbSize, true
}

// HandlePointer forwards a routed pointer event to the compass.
func (m *Module) HandlePointer(event module.PointerEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := event.CompassPoint()
	switch event.Type {
	case module.PointerPress:
		m.compass.Press(p)
	case module.PointerMove:
		m.compass.Move(p)
	case module.PointerRelease:
		m.compass.Release()
	case module.PointerCancel:
		m.compass.Cancel()
	default:
		return fmt.Errorf("stick: unknown pointer event %v", event.Type)
	}
	return nil
}

// Snapshot returns a copy of the current compass state.
func (m *Module) Snapshot() compass.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compass.Snapshot()
}

// AddVisibilityHandler registers fn for show/hide transitions. fn runs with
// the module lock held and must not call back into the module.
func (m *Module) AddVisibilityHandler(fn compass.VisibilityHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compass.AddVisibilityHandler(fn)
}

// SetEnabled enables or disables the stick. Disabling ends any gesture.
func (m *Module) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enabled {
		m.compass.Enable()
	} else {
		m.compass.Disable()
	}
}

// Cancel ends the active gesture, if any.
func (m *Module) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compass.Cancel()
}

// RenderSurface draws the markers while a gesture is active.
func (m *Module) RenderSurface() image.Image {
	region := m.Resources().Region
	if region.Empty() {
		return nil
	}

	m.mu.Lock()
	snap := m.compass.Snapshot()
	s := m.sprites
	m.mu.Unlock()

	if !snap.Active || s.thumb == nil {
		return nil
	}
	return drawMarkers(region, snap.Markers, s)
}

func drawMarkers(region image.Rectangle, markers []compass.Point, s sprites) *image.RGBA {
	img := image.NewRGBA(region)
	if len(markers) == 0 {
		return img
	}

	last := len(markers) - 1
	if s.reach != nil {
		sprite.DrawCentered(img, s.reach, toImage(markers[0]))
	}
	sprite.DrawCentered(img, s.base, toImage(markers[0]))
	for _, p := range markers[1:last] {
		sprite.DrawCentered(img, s.segment, toImage(p))
	}
	if last > 0 {
		sprite.DrawCentered(img, s.thumb, toImage(markers[last]))
	}
	return img
}

func toImage(p compass.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
