package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phinze/compassdeck/internal/compass"
)

func newModel(t *testing.T) Model {
	t.Helper()
	m, err := New(compass.Options{MaxDistance: 10, SegmentCount: 1}, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New(compass.Options{}, 10); err == nil {
		t.Error("expected error for zero max distance")
	}
}

func TestMouseDrivesCompass(t *testing.T) {
	m := newModel(t)

	m = update(t, m, mouse(tea.MouseActionPress, 10, 10))
	if !m.compass.IsActive() {
		t.Fatal("press should start a gesture")
	}

	m = update(t, m, mouse(tea.MouseActionMotion, 15, 10))
	if got := m.compass.Speed(); got != (compass.Speed{X: -50}) {
		t.Errorf("speed = %+v, want {-50 0}", got)
	}

	m = update(t, m, mouse(tea.MouseActionMotion, 40, 10))
	if got := m.compass.Delta(); !got.Eq(compass.Pt(10, 0), 1e-9) {
		t.Errorf("clamped delta = %v", got)
	}

	m = update(t, m, mouse(tea.MouseActionRelease, 40, 10))
	if m.compass.IsActive() {
		t.Error("release should end the gesture")
	}
}

func TestPressOnPanelIgnored(t *testing.T) {
	m := newModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, mouse(tea.MouseActionPress, 90, 5))
	if m.compass.IsActive() {
		t.Error("press over the status panel should be ignored")
	}
}

func TestRightButtonIgnored(t *testing.T) {
	m := newModel(t)
	msg := mouse(tea.MouseActionPress, 5, 5)
	msg.Button = tea.MouseButtonRight
	m = update(t, m, msg)
	if m.compass.IsActive() {
		t.Error("right button should not start a gesture")
	}
}

func TestKeys(t *testing.T) {
	m := newModel(t)

	m = update(t, m, mouse(tea.MouseActionPress, 5, 5))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.compass.IsActive() {
		t.Error("esc should cancel the gesture")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if !m.opts.SingleAxisLock || !m.compass.Options().SingleAxisLock {
		t.Error("l should enable axis lock")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if m.opts.SingleAxisLock {
		t.Error("second l should disable axis lock")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestSampleHistory(t *testing.T) {
	m := newModel(t)
	m = update(t, m, mouse(tea.MouseActionPress, 10, 10))
	m = update(t, m, mouse(tea.MouseActionMotion, 20, 10))

	for i := 0; i < 8; i++ {
		next, cmd := m.Update(sampleMsg{})
		m = next.(Model)
		if cmd == nil {
			t.Fatal("sampling should reschedule itself")
		}
	}

	if len(m.history) != 5 {
		t.Fatalf("history = %d, want capped at 5", len(m.history))
	}
	if m.history[4] != 100 {
		t.Errorf("latest sample = %v, want 100", m.history[4])
	}
}

func TestRenderGrid(t *testing.T) {
	snap := compass.Snapshot{
		Active:  true,
		Markers: []compass.Point{compass.Pt(1, 1), compass.Pt(3, 1), compass.Pt(5, 1)},
	}
	got := renderGrid(snap, 8, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "o") || !strings.Contains(lines[1], "·") || !strings.Contains(lines[1], "@") {
		t.Errorf("row 1 = %q, want base, segment and thumb", lines[1])
	}

	idle := renderGrid(compass.Snapshot{Markers: snap.Markers}, 8, 3)
	if strings.ContainsAny(idle, "o·@") {
		t.Errorf("idle grid should be empty, got %q", idle)
	}

	offGrid := compass.Snapshot{Active: true, Markers: []compass.Point{compass.Pt(-5, -5), compass.Pt(50, 50)}}
	if strings.ContainsAny(renderGrid(offGrid, 8, 3), "o@") {
		t.Error("markers outside the grid should be dropped")
	}
}

func TestView(t *testing.T) {
	m := newModel(t)
	m = update(t, m, mouse(tea.MouseActionPress, 10, 10))
	m = update(t, m, mouse(tea.MouseActionMotion, 14, 10))

	view := m.View()
	for _, want := range []string{"COMPASSDECK", "active", "-40, 0", "right", "@"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
