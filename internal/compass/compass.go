package compass

// VisibilityHandler is called when the markers should be shown (gesture
// started) or hidden (gesture ended).
type VisibilityHandler func(visible bool)

// Snapshot is a copy of everything a renderer or consumer needs for one frame.
type Snapshot struct {
	Active     bool
	Initial    Point
	Delta      Point
	Speed      Speed
	Directions Directions
	Markers    []Point
}

// Compass is the gesture state machine. It is Idle until Press, Active until
// Release or Cancel, and ignores signals that arrive out of order.
//
// A Compass is not safe for concurrent use; hosts that dispatch input from
// several goroutines must serialise calls.
type Compass struct {
	opts Options

	enabled bool
	active  bool
	initial Point

	delta      Point
	speed      Speed
	directions Directions
	markers    []Point

	visibilityHandlers []VisibilityHandler
}

// New validates opts and returns an idle, enabled Compass.
func New(opts Options) (*Compass, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Compass{
		opts:    opts,
		enabled: true,
		markers: make([]Point, 0, opts.MarkerCount()),
	}, nil
}

// AddVisibilityHandler registers fn to be told about Idle/Active transitions.
func (c *Compass) AddVisibilityHandler(fn VisibilityHandler) {
	c.visibilityHandlers = append(c.visibilityHandlers, fn)
}

// Press starts a gesture at p. It is a no-op while a gesture is active or the
// compass is disabled.
func (c *Compass) Press(p Point) {
	if c.active || !c.enabled {
		return
	}
	c.active = true
	c.initial = p
	c.apply(Resolution{})
	c.notify(true)
}

// Move recomputes the outputs for a pointer at p. It is a no-op while idle.
func (c *Compass) Move(p Point) {
	if !c.active {
		return
	}
	c.apply(Resolve(c.initial, p, c.opts))
}

// Update is the per-tick entry point for hosts that poll the pointer every
// frame instead of forwarding move events.
func (c *Compass) Update(p Point) {
	c.Move(p)
}

// Release ends the gesture, zeroing speed and directions. It is a no-op while
// idle.
func (c *Compass) Release() {
	if !c.active {
		return
	}
	c.active = false
	c.delta = Point{}
	c.speed = Speed{}
	c.directions = Directions{}
	c.markers = c.markers[:0]
	c.notify(false)
}

// Cancel ends the gesture because the host lost the pointer (focus change,
// device sleep). It behaves exactly like Release.
func (c *Compass) Cancel() {
	c.Release()
}

// Enable lets Press start gestures again.
func (c *Compass) Enable() {
	c.enabled = true
}

// Disable stops Press from starting gestures and cancels the active one.
func (c *Compass) Disable() {
	c.enabled = false
	c.Cancel()
}

// Enabled reports whether presses are accepted.
func (c *Compass) Enabled() bool {
	return c.enabled
}

// IsActive reports whether a gesture is in progress.
func (c *Compass) IsActive() bool {
	return c.active
}

// Options returns the configuration the compass was built with.
func (c *Compass) Options() Options {
	return c.opts
}

// Initial returns the contact point of the active gesture.
func (c *Compass) Initial() Point {
	return c.initial
}

// Delta returns the current clamped delta vector.
func (c *Compass) Delta() Point {
	return c.delta
}

// Speed returns the current speed signal.
func (c *Compass) Speed() Speed {
	return c.speed
}

// Directions returns the current direction flags.
func (c *Compass) Directions() Directions {
	return c.directions
}

// Markers returns a copy of the current marker positions, base first and
// thumb last. It is empty while idle.
func (c *Compass) Markers() []Point {
	out := make([]Point, len(c.markers))
	copy(out, c.markers)
	return out
}

// Snapshot returns a copy of the current state.
func (c *Compass) Snapshot() Snapshot {
	return Snapshot{
		Active:     c.active,
		Initial:    c.initial,
		Delta:      c.delta,
		Speed:      c.speed,
		Directions: c.directions,
		Markers:    c.Markers(),
	}
}

func (c *Compass) apply(r Resolution) {
	c.delta = r.Delta
	c.speed = r.Speed
	c.directions = r.Directions
	c.markers = layoutInto(c.markers, c.initial, r.Delta, c.opts.SegmentCount)
}

func (c *Compass) notify(visible bool) {
	for _, fn := range c.visibilityHandlers {
		fn(visible)
	}
}
