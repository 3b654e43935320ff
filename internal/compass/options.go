package compass

import (
	"errors"
	"fmt"
	"math"
)

// Defaults match the touch-control plugin this stick is modelled on.
const (
	DefaultMaxDistance  = 200.0
	DefaultSegmentCount = 2
)

// ErrInvalidOptions is wrapped by every Options validation failure.
var ErrInvalidOptions = errors.New("compass: invalid options")

// Options configures a Compass. It is owned by the caller and never mutated
// by this package.
type Options struct {
	// MaxDistance is the radius the delta vector is clamped to.
	MaxDistance float64 `yaml:"max_distance"`

	// SingleAxisLock restricts the delta to the axis with the larger
	// displacement.
	SingleAxisLock bool `yaml:"single_axis_lock"`

	// SegmentCount is the number of interior markers between base and thumb.
	SegmentCount int `yaml:"segment_count"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		MaxDistance:  DefaultMaxDistance,
		SegmentCount: DefaultSegmentCount,
	}
}

// ValidationError describes a single invalid Options field.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("compass: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidOptions.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidOptions
}

// Validate checks the options and returns a *ValidationError for the first
// field that is out of range.
func (o Options) Validate() error {
	if math.IsNaN(o.MaxDistance) || math.IsInf(o.MaxDistance, 0) || o.MaxDistance <= 0 {
		return &ValidationError{Field: "max_distance", Value: o.MaxDistance, Reason: "must be a positive finite number"}
	}
	if o.SegmentCount < 0 {
		return &ValidationError{Field: "segment_count", Value: o.SegmentCount, Reason: "must not be negative"}
	}
	return nil
}

// MarkerCount is the number of markers laid out for these options: one base,
// SegmentCount interior markers and one thumb.
func (o Options) MarkerCount() int {
	return o.SegmentCount + 2
}
