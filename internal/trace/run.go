package trace

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/phinze/compassdeck/internal/compass"
)

// Frame is the compass state after one step.
type Frame struct {
	Index    int
	Action   Action
	Point    compass.Point
	Snapshot compass.Snapshot
	// Visible is the visibility signal emitted by this step, if any.
	Visible *bool
}

// Run feeds the script to a fresh compass built from base plus the script's
// overrides and returns one frame per step.
func Run(base compass.Options, s *Script) ([]Frame, error) {
	c, err := compass.New(s.Options.Apply(base))
	if err != nil {
		return nil, err
	}

	var signal *bool
	c.AddVisibilityHandler(func(v bool) { signal = &v })

	frames := make([]Frame, 0, len(s.Steps))
	for i, step := range s.Steps {
		action, p, err := step.Action()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		signal = nil
		switch action {
		case ActionPress:
			c.Press(p)
		case ActionMove:
			c.Move(p)
		case ActionRelease:
			c.Release()
		case ActionCancel:
			c.Cancel()
		}

		frames = append(frames, Frame{
			Index:    i,
			Action:   action,
			Point:    p,
			Snapshot: c.Snapshot(),
			Visible:  signal,
		})
	}
	return frames, nil
}

// WriteTable prints frames as an aligned table.
func WriteTable(w io.Writer, frames []Frame) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tACTION\tPOINT\tACTIVE\tDELTA\tSPEED\tDIRECTIONS\tSIGNAL")

	for _, f := range frames {
		point := "-"
		if f.Action == ActionPress || f.Action == ActionMove {
			point = f.Point.String()
		}
		sig := "-"
		if f.Visible != nil {
			sig = "hide"
			if *f.Visible {
				sig = "show"
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%d,%d\t%s\t%s\n",
			f.Index,
			f.Action,
			point,
			f.Snapshot.Active,
			f.Snapshot.Delta,
			f.Snapshot.Speed.X, f.Snapshot.Speed.Y,
			f.Snapshot.Directions,
			sig,
		)
	}
	return tw.Flush()
}
