package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 300
	energyMetric    = "kinetic_energy"

	DefaultBurst = 50
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a runner once per tick and draws the particles.
type Model struct {
	runner         *sim.Runner
	frameDt        float64
	burst          int
	title          string
	canvas         *Canvas
	viewport       Viewport
	theme          Theme
	running        bool
	showHelp       bool
	last           sim.Frame
	err            error
	energyHistory  []float64
	contactHistory []float64
	positions      []dynamo.Vec2
}

func NewModel(r *sim.Runner, frameDt float64, burst int, title string) Model {
	cfg := r.Solver().Config()
	canvas := NewCanvas(canvasWidth, canvasHeight)
	return Model{
		runner:         r,
		frameDt:        frameDt,
		burst:          burst,
		title:          title,
		canvas:         canvas,
		viewport:       FitViewport(canvas, cfg.Width, cfg.Height),
		theme:          ThemeCyberpunk,
		running:        true,
		energyHistory:  make([]float64, 0, historyCapacity),
		contactHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "b":
			if e := m.runner.Emitter(); e != nil {
				e.Burst(m.runner.Solver(), m.burst)
			}
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	f, err := m.runner.Step(m.frameDt)
	m.last = f
	if err != nil {
		m.err = err
		m.running = false
		return
	}

	if e, ok := f.Metrics[energyMetric]; ok {
		m.energyHistory = appendCapped(m.energyHistory, e)
	}
	m.contactHistory = appendCapped(m.contactHistory, float64(f.Contacts))
}

func appendCapped(history []float64, v float64) []float64 {
	history = append(history, v)
	if len(history) > historyCapacity {
		history = history[1:]
	}
	return history
}

func (m *Model) reset() {
	m.runner.Reset()
	m.last = sim.Frame{}
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	m.contactHistory = m.contactHistory[:0]
}

// capacity is the particle count the progress bar fills toward.
func (m Model) capacity() int {
	if e := m.runner.Emitter(); e != nil && e.Config().Max > 0 {
		return e.Config().Max
	}
	return max(m.runner.Solver().Config().Capacity, 1)
}

func (m *Model) draw() {
	s := m.runner.Solver()
	m.positions = s.Particles().Positions(m.positions[:0])
	m.canvas.Clear()
	m.canvas.DrawWorld(m.viewport, m.positions, s.Config().Radius)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("UNSTABLE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render(AnimatedSpinner(m.runner.FrameIndex()) + " RUNNING")
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(m.theme.Particles).Render(m.canvas.String())

	s := m.runner.Solver()
	stats := s.Stats()
	count := s.Len()

	var b strings.Builder
	b.WriteString(GradientText(strings.ToUpper(m.title), m.theme.TitleStart, m.theme.TitleEnd) + "\n")
	b.WriteString(m.status() + "\n\n")

	b.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.2fs", m.runner.Time())) + "\n")
	b.WriteString(MetricLabel.Render("Particles") + MetricValue.Render(fmt.Sprintf("%d/%d", count, m.capacity())) + "\n")
	b.WriteString(MetricLabel.Render("") + ProgressBar(float64(count)/float64(m.capacity()), 20) + "\n")
	b.WriteString(MetricLabel.Render("Sub-steps") + MetricValue.Render(fmt.Sprintf("%d × %.2fms", stats.SubSteps, stats.SubDt*1000)) + "\n")
	b.WriteString(MetricLabel.Render("Contacts") + MetricValue.Render(fmt.Sprintf("%d", stats.Contacts)) + "\n")
	b.WriteString(MetricLabel.Render("") + SparklineChart(m.contactHistory, 20) + "\n")
	b.WriteString(MetricLabel.Render("Wall hits") + MetricValue.Render(fmt.Sprintf("%d", m.last.BoundaryHits)) + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		b.WriteString(graphStyle.Foreground(m.theme.Chart).Render(chart) + "\n")
	}
	if m.err != nil {
		b.WriteString(StatusFailed.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + Separator(36) + "\n")
	b.WriteString(helpStyle.Render("SP:Pause B:Burst R:Reset\nT:Theme  ?:Help  Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, GlassPanel.Render(b.String()))
	if m.showHelp {
		return m.help() + "\n\n" + mainView
	}
	return mainView
}

func (m Model) help() string {
	return KeyHint.Render(fmt.Sprintf(`
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  B        - Spawn a burst of %-4d    ║
║  R        - Reset to an empty world  ║
║  T        - Cycle themes (%-9s) ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`, m.burst, m.theme.Name))
}
