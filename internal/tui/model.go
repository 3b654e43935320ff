// Package tui hosts the compass in a terminal, driven by the mouse.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/phinze/compassdeck/internal/compass"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	panelWidth    = 36
	sampleEvery   = 100 * time.Millisecond
)

// Grid glyphs.
const (
	glyphBase    = 'o'
	glyphSegment = '·'
	glyphThumb   = '@'
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 1).Width(panelWidth)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	thumbStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type sampleMsg time.Time

// Model is the bubbletea model for the terminal host.
type Model struct {
	opts       compass.Options
	compass    *compass.Compass
	width      int
	height     int
	history    []float64
	historyCap int
	err        error
}

// New returns a terminal model for opts. Distances are in terminal cells.
func New(opts compass.Options, historyCap int) (Model, error) {
	c, err := compass.New(opts)
	if err != nil {
		return Model{}, err
	}
	if historyCap < 2 {
		historyCap = 2
	}
	return Model{
		opts:       opts,
		compass:    c,
		width:      defaultWidth,
		height:     defaultHeight,
		history:    make([]float64, 0, historyCap),
		historyCap: historyCap,
	}, nil
}

// Run starts the terminal host and blocks until the user quits.
func Run(opts compass.Options, historyCap int) error {
	m, err := New(opts, historyCap)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func sample() tea.Cmd {
	return tea.Tick(sampleEvery, func(t time.Time) tea.Msg { return sampleMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return sample()
}

// Update handles keys, mouse gestures and speed sampling.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m = m.toggleLock()
		case "esc":
			m.compass.Cancel()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.MouseMsg:
		m.handleMouse(msg)
	case sampleMsg:
		m.record()
		return m, sample()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	p := compass.Pt(float64(msg.X), float64(msg.Y))
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && msg.X < m.gridWidth() {
			m.compass.Press(p)
		}
	case tea.MouseActionMotion:
		m.compass.Move(p)
	case tea.MouseActionRelease:
		m.compass.Release()
	}
}

func (m Model) toggleLock() Model {
	opts := m.opts
	opts.SingleAxisLock = !opts.SingleAxisLock
	c, err := compass.New(opts)
	if err != nil {
		m.err = err
		return m
	}
	m.compass.Cancel()
	m.opts, m.compass = opts, c
	return m
}

// record appends the current speed magnitude to the plot history.
func (m *Model) record() {
	s := m.compass.Speed()
	mag := math.Hypot(float64(s.X), float64(s.Y))
	if len(m.history) == m.historyCap {
		copy(m.history, m.history[1:])
		m.history = m.history[:len(m.history)-1]
	}
	m.history = append(m.history, mag)
}

func (m Model) gridWidth() int {
	return max(m.width-panelWidth-1, 1)
}

// View renders the grid and the status panel side by side.
func (m Model) View() string {
	snap := m.compass.Snapshot()
	grid := renderGrid(snap, m.gridWidth(), max(m.height, 1))
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, panelStyle.Render(m.panel(snap)))
}

func (m Model) panel(snap compass.Snapshot) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("COMPASSDECK") + "\n")

	state := "idle"
	if snap.Active {
		state = activeStyle.Render("active")
	}
	lock := "off"
	if m.opts.SingleAxisLock {
		lock = "on"
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("State", state)
	row("Speed", fmt.Sprintf("%d, %d", snap.Speed.X, snap.Speed.Y))
	row("Directions", snap.Directions.String())
	row("Delta", snap.Delta.String())
	row("Axis lock", lock)

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-10),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(100*math.Sqrt2),
			asciigraph.Caption("Speed"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(activeStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("Drag: steer  L: axis lock\nEsc: cancel  Q: quit"))
	return s.String()
}

// renderGrid draws the markers on a w×h character grid.
func renderGrid(snap compass.Snapshot, w, h int) string {
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", w))
	}

	put := func(p compass.Point, r rune) {
		x, y := int(math.Round(p.X)), int(math.Round(p.Y))
		if x >= 0 && x < w && y >= 0 && y < h {
			cells[y][x] = r
		}
	}
	if snap.Active && len(snap.Markers) > 0 {
		last := len(snap.Markers) - 1
		for _, p := range snap.Markers[1:last] {
			put(p, glyphSegment)
		}
		put(snap.Markers[0], glyphBase)
		put(snap.Markers[last], glyphThumb)
	}

	var b strings.Builder
	for y, row := range cells {
		for _, r := range row {
			switch r {
			case glyphThumb:
				b.WriteString(thumbStyle.Render(string(r)))
			case glyphBase, glyphSegment:
				b.WriteString(markerStyle.Render(string(r)))
			default:
				b.WriteRune(r)
			}
		}
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
