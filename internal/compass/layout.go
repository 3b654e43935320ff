package compass

// Layout returns the marker positions for a gesture anchored at initial with
// the given final delta: the base, segments interior markers and the thumb,
// evenly spaced along the delta vector.
//
// A negative segments value (fewer than two markers) places a single marker
// at initial.
func Layout(initial, delta Point, segments int) []Point {
	return layoutInto(nil, initial, delta, segments)
}

// layoutInto reuses dst's backing array when it is large enough.
func layoutInto(dst []Point, initial, delta Point, segments int) []Point {
	m := segments + 2
	if m < 2 {
		return append(dst[:0], initial)
	}

	if cap(dst) < m {
		dst = make([]Point, m)
	}
	dst = dst[:m]

	last := float64(m - 1)
	for i := range dst {
		t := float64(i) / last
		dst[i] = Point{
			X: initial.X + delta.X*t,
			Y: initial.Y + delta.Y*t,
		}
	}
	return dst
}
