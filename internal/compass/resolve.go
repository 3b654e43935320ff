package compass

import (
	"math"
	"strings"
)

// SpeedLimit bounds both Speed axes.
const SpeedLimit = 100

// Speed is the displacement as a percentage of MaxDistance, sign-inverted:
// dragging left yields a positive X, i.e. the direction to move away from.
type Speed struct {
	X, Y int
}

// IsZero reports whether both axes are zero.
func (s Speed) IsZero() bool {
	return s.X == 0 && s.Y == 0
}

// Directions holds the four directional flags derived from the final delta.
// Up/Down and Left/Right are never both set.
type Directions struct {
	Up, Down, Left, Right bool
}

// Any reports whether any flag is set.
func (d Directions) Any() bool {
	return d.Up || d.Down || d.Left || d.Right
}

// String renders the set flags joined by "-", or "none".
func (d Directions) String() string {
	var parts []string
	if d.Up {
		parts = append(parts, "up")
	}
	if d.Down {
		parts = append(parts, "down")
	}
	if d.Left {
		parts = append(parts, "left")
	}
	if d.Right {
		parts = append(parts, "right")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "-")
}

// Resolution is the outcome of resolving one pointer position.
type Resolution struct {
	// Delta is the locked and clamped displacement from the initial point.
	Delta Point
	// Distance is the raw, unlocked pointer distance from the initial point.
	Distance float64
	// Clamped is set when Distance exceeded MaxDistance.
	Clamped    bool
	Speed      Speed
	Directions Directions
}

// Resolve computes the delta vector, speed and direction flags for a pointer
// at current in a gesture that started at initial.
//
// Distance is measured on the raw pointer while the clamp angle is taken
// after axis locking, so a diagonal drag beyond MaxDistance with the lock on
// ends up on the winning axis at full length.
func Resolve(initial, current Point, opts Options) Resolution {
	raw := current.Sub(initial)
	delta := raw

	if opts.SingleAxisLock {
		// X wins ties.
		if math.Abs(delta.X) >= math.Abs(delta.Y) {
			delta.Y = 0
		} else {
			delta.X = 0
		}
	}

	res := Resolution{Distance: raw.Len()}

	if res.Distance > opts.MaxDistance {
		angle := math.Atan2(delta.Y, delta.X)
		clamped := Point{
			X: math.Cos(angle) * opts.MaxDistance,
			Y: math.Sin(angle) * opts.MaxDistance,
		}
		// cos(pi/2) is not exactly zero; keep zeroed axes zero so the
		// direction flags stay clean.
		if delta.X == 0 {
			clamped.X = 0
		}
		if delta.Y == 0 {
			clamped.Y = 0
		}
		delta = clamped
		res.Clamped = true
	}

	res.Delta = delta
	res.Speed = Speed{
		X: speedAxis(delta.X, opts.MaxDistance),
		Y: speedAxis(delta.Y, opts.MaxDistance),
	}
	res.Directions = Directions{
		Up:    delta.Y < 0,
		Down:  delta.Y > 0,
		Left:  delta.X < 0,
		Right: delta.X > 0,
	}
	return res
}

func speedAxis(d, maxDistance float64) int {
	v := math.Round(d / maxDistance * 100 * -1)
	switch {
	case math.IsNaN(v):
		return 0
	case v > SpeedLimit:
		return SpeedLimit
	case v < -SpeedLimit:
		return -SpeedLimit
	}
	return int(v)
}
