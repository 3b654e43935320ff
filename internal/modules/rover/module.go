// Package rover provides a module that drives an avatar with the compass
// speed signal.
package rover

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/phinze/compassdeck/internal/compass"
	"github.com/phinze/compassdeck/internal/module"
	"github.com/phinze/compassdeck/internal/sprite"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Source supplies the compass state the rover follows.
type Source interface {
	Snapshot() compass.Snapshot
}

// Config holds the rover settings.
type Config struct {
	// Speed is the avatar speed in pixels per second at 100%.
	Speed float64
	// Size is the avatar diameter in pixels.
	Size  int
	Color color.RGBA
}

// Module implements the rover surface module.
type Module struct {
	module.BaseModule

	src    Source
	config Config

	mu     sync.Mutex
	pos    compass.Point
	last   compass.Snapshot
	avatar *image.RGBA
	hud    font.Face
}

// New creates a rover following src.
func New(src Source, cfg Config) *Module {
	return &Module{
		BaseModule: module.NewBaseModule("rover"),
		src:        src,
		config:     cfg,
	}
}

// Init centres the avatar in its region and prepares the sprite and font.
func (m *Module) Init(ctx context.Context, res module.Resources) error {
	if err := m.BaseModule.Init(ctx, res); err != nil {
		return err
	}
	if m.config.Size <= 0 {
		return fmt.Errorf("rover: invalid size %d", m.config.Size)
	}

	avatar, err := sprite.Render(sprite.Circle(0), m.config.Size, m.config.Color)
	if err != nil {
		return fmt.Errorf("avatar sprite: %w", err)
	}

	tt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    14,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("create font face: %w", err)
	}

	r := res.Region
	m.mu.Lock()
	m.avatar = avatar
	m.hud = face
	m.pos = compass.Pt(float64(r.Min.X+r.Max.X)/2, float64(r.Min.Y+r.Max.Y)/2)
	m.mu.Unlock()

	log.Printf("Rover module initialized (%.0f px/s)", m.config.Speed)
	return nil
}

// Stop releases the font face.
func (m *Module) Stop() error {
	m.mu.Lock()
	if m.hud != nil {
		m.hud.Close()
		m.hud = nil
	}
	m.mu.Unlock()
	return m.BaseModule.Stop()
}

// Tick moves the avatar by the current speed for dt.
func (m *Module) Tick(dt time.Duration) {
	snap := m.src.Snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.last = snap
	m.pos = step(m.pos, snap.Speed, m.config.Speed, dt)
	m.pos = clampTo(m.pos, m.Resources().Region, m.config.Size)
}

// Position returns the avatar centre.
func (m *Module) Position() compass.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

// step advances pos by speed percent of pxPerSec over dt.
func step(pos compass.Point, speed compass.Speed, pxPerSec float64, dt time.Duration) compass.Point {
	if speed.IsZero() || dt <= 0 {
		return pos
	}
	scale := pxPerSec * dt.Seconds() / compass.SpeedLimit
	return pos.Add(compass.Pt(float64(speed.X)*scale, float64(speed.Y)*scale))
}

// clampTo keeps an avatar of the given diameter inside r.
func clampTo(p compass.Point, r image.Rectangle, size int) compass.Point {
	if r.Empty() {
		return p
	}
	half := float64(size) / 2
	minX, maxX := float64(r.Min.X)+half, float64(r.Max.X)-half
	minY, maxY := float64(r.Min.Y)+half, float64(r.Max.Y)-half
	if minX > maxX {
		minX, maxX = float64(r.Min.X+r.Max.X)/2, float64(r.Min.X+r.Max.X)/2
	}
	if minY > maxY {
		minY, maxY = float64(r.Min.Y+r.Max.Y)/2, float64(r.Min.Y+r.Max.Y)/2
	}
	p.X = min(max(p.X, minX), maxX)
	p.Y = min(max(p.Y, minY), maxY)
	return p
}

// RenderSurface draws the avatar and a HUD line.
func (m *Module) RenderSurface() image.Image {
	r := m.Resources().Region
	if r.Empty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.avatar == nil {
		return nil
	}

	img := image.NewRGBA(r)
	sprite.DrawCentered(img, m.avatar, image.Pt(int(m.pos.X), int(m.pos.Y)))

	if m.hud != nil {
		drawText(img, hudLine(m.last), r.Min.X+8, r.Max.Y-8, m.hud, color.RGBA{200, 200, 200, 255})
	}
	return img
}

func hudLine(s compass.Snapshot) string {
	return fmt.Sprintf("speed %d,%d  %s", s.Speed.X, s.Speed.Y, s.Directions)
}

// drawText draws text at the given baseline position.
func drawText(img *image.RGBA, text string, x, y int, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
