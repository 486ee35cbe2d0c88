package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/metrics"
	"github.com/san-kum/streamtrace/internal/streamline"
)

// cursorSteps is the number of cursor moves across the domain.
const cursorSteps = 50

type traceMsg struct {
	seed      vec.Vec2
	normalize bool
	traj      streamline.Trajectory
}

// Reseed is the bubbletea model for picking a seed point interactively.
type Reseed struct {
	field   *field.VectorField
	speed   *field.Sampler
	opts    streamline.Options
	tracers map[bool]*streamline.Tracer

	cursor   vec.Vec2
	traj     streamline.Trajectory
	tracing  bool
	accepted bool

	// seed the view was opened with, kept on screen for comparison
	saved     vec.Vec2
	hasSaved  bool
	savedTraj streamline.Trajectory

	theme         Theme
	width, height int
}

// NewReseed builds the model with the cursor at seed, or at the domain centre
// if seed is not finite or lies off the grid. A seed on the grid is also kept
// as the saved seed and drawn with its streamline until the view closes.
// Options are validated here.
func NewReseed(f *field.VectorField, seed vec.Vec2, opts streamline.Options) (Reseed, error) {
	m := Reseed{
		field:   f,
		speed:   field.NewSampler(f, false, opts.Bounds),
		opts:    opts,
		tracers: make(map[bool]*streamline.Tracer, 2),
		cursor:  seed,
		theme:   Themes[0],
		width:   80,
		height:  24,
	}
	for _, normalize := range []bool{false, true} {
		o := opts
		o.Normalize = normalize
		t, err := streamline.NewTracer(f, o)
		if err != nil {
			return Reseed{}, err
		}
		m.tracers[normalize] = t
	}
	if f.Grid().Contains(seed.X, seed.Y) {
		m.saved, m.hasSaved = seed, true
	} else {
		cx, cy := f.Grid().Center()
		m.cursor = vec.Vec2{X: cx, Y: cy}
	}
	return m, nil
}

// Seed returns the cursor position and whether the user accepted it.
func (m Reseed) Seed() (vec.Vec2, bool) { return m.cursor, m.accepted }

func (m Reseed) Normalized() bool { return m.opts.Normalize }

func (m Reseed) Trajectory() streamline.Trajectory { return m.traj }

// Saved returns the seed the view was opened with, if it was on the grid.
func (m Reseed) Saved() (vec.Vec2, bool) { return m.saved, m.hasSaved }

// SavedTrajectory is the streamline from the saved seed in the current mode.
func (m Reseed) SavedTrajectory() streamline.Trajectory { return m.savedTraj }

func (m Reseed) Init() tea.Cmd { return m.trace() }

func (m Reseed) trace() tea.Cmd {
	return m.traceFrom(m.cursor)
}

func (m Reseed) traceFrom(seed vec.Vec2) tea.Cmd {
	tracer, normalize := m.tracers[m.opts.Normalize], m.opts.Normalize
	return func() tea.Msg {
		return traceMsg{seed: seed, normalize: normalize, traj: tracer.Trace(seed)}
	}
}

func (m Reseed) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case traceMsg:
		// Drop results for a cursor or mode that has since changed.
		if msg.normalize != m.opts.Normalize {
			break
		}
		if msg.seed == m.cursor {
			m.traj, m.tracing = msg.traj, false
		}
		if m.hasSaved && msg.seed == m.saved {
			m.savedTraj = msg.traj
		}
	}
	return m, nil
}

func (m Reseed) handleKey(msg tea.KeyMsg) (Reseed, tea.Cmd) {
	b := m.field.Grid().Bounds()
	dx, dy := (b.URx-b.LLx)/cursorSteps, (b.URy-b.LLy)/cursorSteps

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.accepted = true
		return m, tea.Quit
	case "left", "h":
		m.cursor.X = math.Max(b.LLx, m.cursor.X-dx)
	case "right", "l":
		m.cursor.X = math.Min(b.URx, m.cursor.X+dx)
	case "up", "k":
		m.cursor.Y = math.Min(b.URy, m.cursor.Y+dy)
	case "down", "j":
		m.cursor.Y = math.Max(b.LLy, m.cursor.Y-dy)
	case "enter", " ":
		m.tracing = true
		return m, m.trace()
	case "n":
		m.opts.Normalize = !m.opts.Normalize
		m.tracing = true
		m.savedTraj = nil
		if m.hasSaved && m.saved != m.cursor {
			return m, tea.Batch(m.trace(), m.traceFrom(m.saved))
		}
		return m, m.trace()
	case "t":
		m.theme = NextTheme(m.theme)
	}
	return m, nil
}

func (m Reseed) View() string {
	st := newStyles(m.theme)

	w, h := max(m.width-4, 10), max(m.height-9, 4)
	c := m.canvas(w, h)

	mode := "time"
	if m.opts.Normalize {
		mode = "arclength"
	}
	status := st.subtle.Render("ready")
	if m.tracing {
		status = st.warn.Render("tracing…")
	}

	var b strings.Builder
	b.WriteString(st.title.Render("STREAMTRACE") + "  " + status + "\n")
	b.WriteString(st.panel.Render(strings.TrimRight(c.String(), "\n")) + "\n")
	b.WriteString(strings.Join([]string{
		st.label.Render("seed ") + st.value.Render(fmt.Sprintf("(%.4g, %.4g)", m.cursor.X, m.cursor.Y)),
		st.label.Render("mode ") + st.value.Render(mode),
		st.label.Render("method ") + st.value.Render(m.opts.Method),
	}, "   "))
	if m.hasSaved {
		b.WriteString("   " + st.label.Render("saved ") +
			st.saved.Render(fmt.Sprintf("(%.4g, %.4g)", m.saved.X, m.saved.Y)))
	}
	b.WriteString("\n")

	if len(m.traj) > 0 {
		got := metrics.Collect(m.traj)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			st.metric("length", got["arc_length"]), "   ",
			st.metric("displacement", got["displacement"]), "   ",
			st.metric("stalled", got["stall_run"]),
		) + "\n")
		b.WriteString(st.label.Render("speed ") + st.sparkline(m.speedProfile(), max(w-6, 1)) + "\n")
	}

	b.WriteString(st.hints("←↑↓→", "move", "enter", "trace", "n", "normalize", "t", "theme", "s", "accept", "q", "quit"))
	return b.String()
}

// canvas draws the field mask, the saved streamline dotted with a box on its
// seed, and the candidate streamline solid with a cross on the cursor.
func (m Reseed) canvas(w, h int) *Canvas {
	c := NewCanvas(w, h)
	c.Plot(m.field, m.traj)
	if m.hasSaved {
		c.PlotDots(m.savedTraj)
		c.MarkBox(m.saved)
	}
	c.Mark(m.cursor)
	return c
}

func (m Reseed) speedProfile() []float64 {
	out := make([]float64, 0, len(m.traj))
	for _, p := range m.traj {
		s := m.speed.Speed(p.X, p.Y)
		if math.IsNaN(s) {
			s = 0
		}
		out = append(out, s)
	}
	return out
}

// RunInteractive opens the reseeding view in the alternate screen and
// returns the final cursor and whether it was accepted.
func RunInteractive(f *field.VectorField, seed vec.Vec2, opts streamline.Options) (vec.Vec2, bool, error) {
	m, err := NewReseed(f, seed, opts)
	if err != nil {
		return vec.Vec2{}, false, err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return vec.Vec2{}, false, err
	}
	p, ok := final.(Reseed).Seed()
	return p, ok, nil
}
