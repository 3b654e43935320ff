// Package trace replays scripted pointer gestures through a compass.
package trace

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/phinze/compassdeck/internal/compass"
	"gopkg.in/yaml.v3"
)

// Script is a recorded or hand-written gesture.
type Script struct {
	Options *Overrides `yaml:"options,omitempty"`
	Steps   []Step     `yaml:"steps"`
}

// Overrides replaces individual compass options for one script.
type Overrides struct {
	MaxDistance    *float64 `yaml:"max_distance,omitempty"`
	SingleAxisLock *bool    `yaml:"single_axis_lock,omitempty"`
	SegmentCount   *int     `yaml:"segment_count,omitempty"`
}

// Apply returns base with every set override applied.
func (o *Overrides) Apply(base compass.Options) compass.Options {
	if o == nil {
		return base
	}
	if o.MaxDistance != nil {
		base.MaxDistance = *o.MaxDistance
	}
	if o.SingleAxisLock != nil {
		base.SingleAxisLock = *o.SingleAxisLock
	}
	if o.SegmentCount != nil {
		base.SegmentCount = *o.SegmentCount
	}
	return base
}

// Action names a step kind.
type Action string

const (
	ActionPress   Action = "press"
	ActionMove    Action = "move"
	ActionRelease Action = "release"
	ActionCancel  Action = "cancel"
)

// Step is one pointer signal. Exactly one field is set.
type Step struct {
	Press   *[2]float64 `yaml:"press,omitempty"`
	Move    *[2]float64 `yaml:"move,omitempty"`
	Release bool        `yaml:"release,omitempty"`
	Cancel  bool        `yaml:"cancel,omitempty"`
}

// ErrInvalidStep is returned for steps that set zero or several actions.
var ErrInvalidStep = errors.New("invalid step")

// Action returns the step kind and, for press and move, its point.
func (s Step) Action() (Action, compass.Point, error) {
	var (
		action Action
		p      compass.Point
		n      int
	)
	if s.Press != nil {
		action, p = ActionPress, compass.Pt(s.Press[0], s.Press[1])
		n++
	}
	if s.Move != nil {
		action, p = ActionMove, compass.Pt(s.Move[0], s.Move[1])
		n++
	}
	if s.Release {
		action = ActionRelease
		n++
	}
	if s.Cancel {
		action = ActionCancel
		n++
	}
	if n != 1 {
		return "", compass.Point{}, fmt.Errorf("%w: %d actions set", ErrInvalidStep, n)
	}
	return action, p, nil
}

// Parse decodes a script and checks every step.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, step := range s.Steps {
		if _, _, err := step.Action(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &s, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}
