package trace

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phinze/compassdeck/internal/compass"
)

func TestLoad(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "clamp.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(s.Steps))
	}
	opts := s.Options.Apply(compass.DefaultOptions())
	if opts.SegmentCount != 1 || opts.MaxDistance != compass.DefaultMaxDistance {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	_, err := Load(filepath.Join("testdata", "bad_step.yaml"))
	if !errors.Is(err, ErrInvalidStep) {
		t.Errorf("err = %v, want ErrInvalidStep", err)
	}

	if _, err := Parse([]byte("steps:\n  - jump: true\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestStepAction(t *testing.T) {
	pt := [2]float64{3, 4}
	tests := []struct {
		name    string
		step    Step
		want    Action
		wantErr bool
	}{
		{"press", Step{Press: &pt}, ActionPress, false},
		{"move", Step{Move: &pt}, ActionMove, false},
		{"release", Step{Release: true}, ActionRelease, false},
		{"cancel", Step{Cancel: true}, ActionCancel, false},
		{"empty", Step{}, "", true},
		{"two", Step{Move: &pt, Cancel: true}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, p, err := tt.step.Action()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("action = %q, want %q", got, tt.want)
			}
			if (got == ActionPress || got == ActionMove) && p != compass.Pt(3, 4) {
				t.Errorf("point = %v", p)
			}
		})
	}
}

func TestRun(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "clamp.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	frames, err := Run(compass.DefaultOptions(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}

	press := frames[0]
	if !press.Snapshot.Active || press.Visible == nil || !*press.Visible {
		t.Errorf("press frame = %+v", press)
	}
	if len(press.Snapshot.Markers) != 3 {
		t.Errorf("markers = %d, want 3", len(press.Snapshot.Markers))
	}

	move := frames[1]
	if move.Visible != nil {
		t.Error("move should not signal visibility")
	}
	if move.Snapshot.Speed != (compass.Speed{X: -25}) {
		t.Errorf("move speed = %+v", move.Snapshot.Speed)
	}

	clamped := frames[2].Snapshot
	if !clamped.Delta.Eq(compass.Pt(200, 0), 1e-9) {
		t.Errorf("clamped delta = %v", clamped.Delta)
	}
	if clamped.Speed != (compass.Speed{X: -100}) || !clamped.Directions.Right {
		t.Errorf("clamped = %+v", clamped)
	}

	release := frames[3]
	if release.Snapshot.Active || release.Visible == nil || *release.Visible {
		t.Errorf("release frame = %+v", release)
	}
	if !release.Snapshot.Speed.IsZero() || release.Snapshot.Directions.Any() {
		t.Error("release should zero outputs")
	}
}

func TestRun_OutOfOrderSteps(t *testing.T) {
	pt := [2]float64{10, 10}
	s := &Script{Steps: []Step{{Move: &pt}, {Release: true}}}

	frames, err := Run(compass.DefaultOptions(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range frames {
		if f.Snapshot.Active || f.Visible != nil {
			t.Errorf("frame %d changed state: %+v", f.Index, f)
		}
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	zero := 0.0
	s := &Script{Options: &Overrides{MaxDistance: &zero}}
	if _, err := Run(compass.DefaultOptions(), s); !errors.Is(err, compass.ErrInvalidOptions) {
		t.Errorf("err = %v, want ErrInvalidOptions", err)
	}
}

func TestWriteTable(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "clamp.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	frames, err := Run(compass.DefaultOptions(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, frames); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "STEP") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"show", "-100,0", "right"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q", want)
		}
	}
	if !strings.Contains(lines[4], "hide") {
		t.Errorf("release row = %q", lines[4])
	}
}
