package rover

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/phinze/compassdeck/internal/compass"
	"github.com/phinze/compassdeck/internal/module"
)

type fixedSource struct {
	snap compass.Snapshot
}

func (s *fixedSource) Snapshot() compass.Snapshot { return s.snap }

func TestStep(t *testing.T) {
	tests := []struct {
		name  string
		speed compass.Speed
		dt    time.Duration
		want  compass.Point
	}{
		{"idle", compass.Speed{}, time.Second, compass.Pt(0, 0)},
		{"full right", compass.Speed{X: 100}, time.Second, compass.Pt(240, 0)},
		{"half up", compass.Speed{Y: -50}, time.Second, compass.Pt(0, -120)},
		{"quarter second", compass.Speed{X: -100, Y: 100}, 250 * time.Millisecond, compass.Pt(-60, 60)},
		{"zero dt", compass.Speed{X: 100}, 0, compass.Pt(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := step(compass.Point{}, tt.speed, 240, tt.dt)
			if !got.Eq(tt.want, 1e-9) {
				t.Errorf("step = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampTo(t *testing.T) {
	r := image.Rect(0, 0, 100, 50)
	tests := []struct {
		in, want compass.Point
	}{
		{compass.Pt(50, 25), compass.Pt(50, 25)},
		{compass.Pt(-10, 25), compass.Pt(5, 25)},
		{compass.Pt(500, 500), compass.Pt(95, 45)},
	}
	for _, tt := range tests {
		if got := clampTo(tt.in, r, 10); got != tt.want {
			t.Errorf("clampTo(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := clampTo(compass.Pt(0, 0), image.Rect(0, 0, 4, 4), 10); got != compass.Pt(2, 2) {
		t.Errorf("oversized avatar = %v, want centre", got)
	}
}

func TestTick_FollowsSource(t *testing.T) {
	src := &fixedSource{}
	m := New(src, Config{Speed: 100, Size: 10, Color: color.RGBA{0, 200, 255, 255}})
	if err := m.Init(context.Background(), module.Resources{Region: image.Rect(0, 0, 200, 200)}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer m.Stop()

	if got := m.Position(); got != compass.Pt(100, 100) {
		t.Fatalf("start = %v, want centre", got)
	}

	src.snap = compass.Snapshot{Active: true, Speed: compass.Speed{X: 100}}
	m.Tick(500 * time.Millisecond)
	if got := m.Position(); math.Abs(got.X-150) > 1e-9 || got.Y != 100 {
		t.Errorf("after tick = %v, want (150,100)", got)
	}

	for i := 0; i < 10; i++ {
		m.Tick(time.Second)
	}
	if got := m.Position(); got.X != 195 {
		t.Errorf("after long drive X = %v, want clamped 195", got.X)
	}

	src.snap = compass.Snapshot{}
	m.Tick(time.Second)
	if got := m.Position(); got.X != 195 {
		t.Errorf("idle tick moved avatar to %v", got)
	}
}

func TestRenderSurface(t *testing.T) {
	col := color.RGBA{0, 200, 255, 255}
	m := New(&fixedSource{}, Config{Speed: 100, Size: 20, Color: col})
	if img := m.RenderSurface(); img != nil {
		t.Fatal("uninitialised rover should draw nothing")
	}

	if err := m.Init(context.Background(), module.Resources{Region: image.Rect(0, 0, 200, 100)}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer m.Stop()

	img, ok := m.RenderSurface().(*image.RGBA)
	if !ok {
		t.Fatal("expected *image.RGBA")
	}
	if c := img.RGBAAt(100, 50); c != col {
		t.Errorf("avatar pixel = %v, want %v", c, col)
	}
}

func TestInit_InvalidSize(t *testing.T) {
	m := New(&fixedSource{}, Config{Speed: 100})
	if err := m.Init(context.Background(), module.Resources{Region: image.Rect(0, 0, 10, 10)}); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestHudLine(t *testing.T) {
	s := compass.Snapshot{Speed: compass.Speed{X: -50, Y: 0}, Directions: compass.Directions{Right: true}}
	if got, want := hudLine(s), "speed -50,0  right"; got != want {
		t.Errorf("hudLine = %q, want %q", got, want)
	}
}
