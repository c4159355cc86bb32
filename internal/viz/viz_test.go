package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/metrics"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Error("expected dot to be set")
	}
	if c.IsSet(2, 5) {
		t.Error("neighbouring dot should be clear")
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("clear left dots behind")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0)

	rows := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if []rune(rows[0])[0] != 0x2801 {
		t.Errorf("expected first braille dot, got %U", []rune(rows[0])[0])
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)

	for i := 0; i < 20; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot %d missing", i)
		}
	}
}

func TestDrawDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawDisc(10, 10, 2)

	count := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if c.IsSet(x, y) {
				count++
			}
		}
	}
	// Lattice points with dx²+dy² <= 4.
	if count != 13 {
		t.Errorf("expected 13 dots, got %d", count)
	}
}

func TestViewportFitsWorld(t *testing.T) {
	c := NewCanvas(80, 24)
	v := FitViewport(c, 800, 600)
	dw, dh := c.DotSize()

	for _, p := range []dynamo.Vec2{{X: 0, Y: 0}, {X: 800, Y: 600}, {X: 400, Y: 300}} {
		x, y := v.Project(p)
		if x < 0 || y < 0 || x >= dw || y >= dh {
			t.Errorf("%v projected outside the canvas: (%d, %d)", p, x, y)
		}
	}

	x0, _ := v.Project(dynamo.Vec2{X: 0})
	x1, _ := v.Project(dynamo.Vec2{X: 800})
	if x0 <= 0 || x1 >= dw-1 {
		t.Errorf("4:3 world should be centered horizontally, got %d..%d", x0, x1)
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.GetPreset("fountain")
	r, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	r.AddMetric(metrics.NewKineticEnergy())
	return NewModel(r, cfg.Run.FrameDt, 10, "fountain")
}

func press(m Model, key string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model), cmd
}

func tickOnce(m Model) Model {
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func TestModelTickSteps(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < 3; i++ {
		m = tickOnce(m)
	}

	if m.runner.FrameIndex() != 3 || m.runner.Solver().Len() != 6 {
		t.Errorf("frame %d with %d particles", m.runner.FrameIndex(), m.runner.Solver().Len())
	}
	if len(m.energyHistory) != 3 || len(m.contactHistory) != 3 {
		t.Errorf("history lengths %d, %d", len(m.energyHistory), len(m.contactHistory))
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, " ")
	m = tickOnce(m)

	if m.runner.FrameIndex() != 0 {
		t.Error("paused model stepped")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show paused status")
	}
}

func TestModelBurstAndReset(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(m, "b")
	if m.runner.Solver().Len() != 10 {
		t.Fatalf("expected burst of 10, got %d", m.runner.Solver().Len())
	}

	m = tickOnce(m)
	m, _ = press(m, "r")
	if m.runner.Solver().Len() != 0 || m.runner.Time() != 0 || len(m.energyHistory) != 0 {
		t.Error("reset left state behind")
	}
}

func TestModelThemeAndHelp(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(m, "t")
	if m.theme.Name != ThemeRetroGreen.Name {
		t.Errorf("expected retro theme, got %s", m.theme.Name)
	}

	m, _ = press(m, "?")
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := press(m, "q")

	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", "#ff0000", "#0000ff") != "" {
		t.Error("empty text should render empty")
	}
	out := GradientText("ab", "#ff0000", "#0000ff")
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Errorf("gradient dropped runes: %q", out)
	}

	if c := parseColor("teal"); c.Hex() != "#ffffff" {
		t.Errorf("invalid color should fall back to white, got %s", c.Hex())
	}
	if c := parseColor("#00ff88"); c.Hex() != "#00ff88" {
		t.Errorf("parseColor(#00ff88) = %s", c.Hex())
	}
}
