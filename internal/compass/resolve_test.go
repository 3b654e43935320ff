package compass

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestResolve_WithinRadiusIsUnclamped(t *testing.T) {
	opts := DefaultOptions()
	initial := Pt(10, 20)

	points := []Point{Pt(10, 20), Pt(50, 60), Pt(-100, 20), Pt(10, 220), Pt(151.42, 161.42)}
	for _, p := range points {
		r := Resolve(initial, p, opts)
		want := p.Sub(initial)
		if r.Delta != want {
			t.Errorf("Resolve(%v) delta = %v, want exactly %v", p, r.Delta, want)
		}
		if r.Clamped {
			t.Errorf("Resolve(%v) should not clamp at distance %v", p, r.Distance)
		}
	}
}

func TestResolve_ClampsToRadius(t *testing.T) {
	opts := DefaultOptions()
	initial := Pt(5, -5)

	points := []Point{Pt(300, 0), Pt(-400, 900), Pt(1000, 1000), Pt(5, -700), Pt(-250, -5)}
	for _, p := range points {
		r := Resolve(initial, p, opts)
		if !r.Clamped {
			t.Fatalf("Resolve(%v) expected clamp", p)
		}
		if got := r.Delta.Len(); math.Abs(got-opts.MaxDistance) > tol {
			t.Errorf("Resolve(%v) magnitude = %v, want %v", p, got, opts.MaxDistance)
		}
		wantAngle := initial.Angle(p)
		gotAngle := math.Atan2(r.Delta.Y, r.Delta.X)
		if math.Abs(gotAngle-wantAngle) > tol {
			t.Errorf("Resolve(%v) angle = %v, want %v", p, gotAngle, wantAngle)
		}
	}
}

func TestResolve_ClampScenario(t *testing.T) {
	r := Resolve(Pt(0, 0), Pt(300, 0), DefaultOptions())

	if r.Delta != Pt(200, 0) {
		t.Errorf("delta = %v, want (200,0)", r.Delta)
	}
	if r.Speed != (Speed{X: -100, Y: 0}) {
		t.Errorf("speed = %+v, want {-100 0}", r.Speed)
	}
	want := Directions{Right: true}
	if r.Directions != want {
		t.Errorf("directions = %+v, want %+v", r.Directions, want)
	}
}

func TestResolve_SpeedIsSignInverted(t *testing.T) {
	tests := []struct {
		p    Point
		want Speed
	}{
		{Pt(100, 0), Speed{X: -50, Y: 0}},
		{Pt(-100, 0), Speed{X: 50, Y: 0}},
		{Pt(0, 50), Speed{X: 0, Y: -25}},
		{Pt(0, -200), Speed{X: 0, Y: 100}},
		{Pt(1, 0), Speed{X: -1, Y: 0}},  // -0.5 rounds away from zero
		{Pt(0.8, 0), Speed{X: 0, Y: 0}}, // -0.4 rounds to zero
		{Pt(0, 0), Speed{}},
	}

	for _, tt := range tests {
		if got := Resolve(Pt(0, 0), tt.p, DefaultOptions()).Speed; got != tt.want {
			t.Errorf("speed for %v = %+v, want %+v", tt.p, got, tt.want)
		}
	}
}

func TestResolve_SpeedBounds(t *testing.T) {
	opts := Options{MaxDistance: 3, SegmentCount: 1}
	for x := -50.0; x <= 50; x += 0.7 {
		for y := -50.0; y <= 50; y += 1.3 {
			s := Resolve(Pt(0, 0), Pt(x, y), opts).Speed
			if s.X < -100 || s.X > 100 || s.Y < -100 || s.Y > 100 {
				t.Fatalf("speed out of range for (%v,%v): %+v", x, y, s)
			}
		}
	}
}

func TestResolve_DirectionsAreExclusive(t *testing.T) {
	for _, lock := range []bool{false, true} {
		opts := Options{MaxDistance: 50, SingleAxisLock: lock}
		for x := -120.0; x <= 120; x += 7.5 {
			for y := -120.0; y <= 120; y += 7.5 {
				d := Resolve(Pt(0, 0), Pt(x, y), opts).Directions
				if d.Up && d.Down {
					t.Fatalf("up and down both set for (%v,%v)", x, y)
				}
				if d.Left && d.Right {
					t.Fatalf("left and right both set for (%v,%v)", x, y)
				}
			}
		}
	}
}

func TestResolve_Directions(t *testing.T) {
	tests := []struct {
		p    Point
		want Directions
	}{
		{Pt(0, 0), Directions{}},
		{Pt(10, 0), Directions{Right: true}},
		{Pt(-10, 0), Directions{Left: true}},
		{Pt(0, -10), Directions{Up: true}},
		{Pt(0, 10), Directions{Down: true}},
		{Pt(-10, -10), Directions{Up: true, Left: true}},
		{Pt(0, 500), Directions{Down: true}}, // clamped vertical keeps X at zero
	}

	for _, tt := range tests {
		if got := Resolve(Pt(0, 0), tt.p, DefaultOptions()).Directions; got != tt.want {
			t.Errorf("directions for %v = %+v, want %+v", tt.p, got, tt.want)
		}
	}
}

func TestResolve_SingleAxisLock(t *testing.T) {
	opts := DefaultOptions()
	opts.SingleAxisLock = true

	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"tie keeps X", Pt(100, 100), Pt(100, 0)},
		{"negative tie keeps X", Pt(-30, 30), Pt(-30, 0)},
		{"X larger", Pt(50, -20), Pt(50, 0)},
		{"Y larger", Pt(20, -50), Pt(0, -50)},
		{"zero", Pt(0, 0), Pt(0, 0)},
		// Distance is taken before locking: (150,150) is 212 away, so the
		// locked vector is clamped to full length on X.
		{"diagonal beyond radius", Pt(150, 150), Pt(200, 0)},
		{"vertical beyond radius", Pt(10, -400), Pt(0, -200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(Pt(0, 0), tt.p, opts)
			if !r.Delta.Eq(tt.want, tol) {
				t.Errorf("delta = %v, want %v", r.Delta, tt.want)
			}
			if r.Delta.X != 0 && r.Delta.Y != 0 {
				t.Errorf("locked delta %v has two non-zero axes", r.Delta)
			}
		})
	}
}

func TestDirections_String(t *testing.T) {
	tests := []struct {
		d    Directions
		want string
	}{
		{Directions{}, "none"},
		{Directions{Up: true}, "up"},
		{Directions{Down: true, Right: true}, "down-right"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
