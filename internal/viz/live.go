package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/turret"
)

const (
	canvasWidth     = 30
	canvasHeight    = 15
	historyCapacity = 300
	refreshRate     = time.Second / 20

	JogStep   = 0.3
	SpeedStep = 0.1
)

// Rig is the running robot loop as the view sees it. control.Robot
// satisfies it; both methods must be safe to call while the loop runs.
type Rig interface {
	Frame() control.Frame
	Enqueue(control.Event) error
}

type TickMsg time.Time

// DoneMsg reports that the simulation loop has returned.
type DoneMsg struct{ Err error }

// Model polls the rig on every tick and turns key presses into events.
type Model struct {
	rig    Rig
	limits turret.Config
	title  string

	theme  Theme
	styles styles
	canvas *Canvas

	frame   control.Frame
	history []float64
	lastErr error
	done    bool
	help    bool
}

func NewModel(rig Rig, limits turret.Config, title string) Model {
	return Model{
		rig:     rig,
		limits:  limits,
		title:   title,
		theme:   Themes[0],
		styles:  newStyles(Themes[0]),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		history: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "a":
			m.send(control.Jog, JogStep)
		case "right", "d":
			m.send(control.Jog, -JogStep)
		case " ", "s":
			m.send(control.Jog, 0)
		case "1":
			m.send(control.TurnRelative, 90)
		case "2":
			m.send(control.TurnRelative, -90)
		case "3":
			m.send(control.TurnRelative, 180)
		case "x":
			m.send(control.CancelTurn, 0)
		case "c":
			m.send(control.CancelWrap, 0)
		case "h":
			m.send(control.Rehome, 0)
		case "+", "=":
			m.send(control.TrackingSpeed, m.frame.Turret.TrackingSpeed+SpeedStep)
		case "-":
			m.send(control.TrackingSpeed, m.frame.Turret.TrackingSpeed-SpeedStep)
		case "t":
			m.theme = nextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "?":
			m.help = !m.help
		}
	case TickMsg:
		m.frame = m.rig.Frame()
		m.history = append(m.history, m.frame.Turret.AngleDegrees)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		if m.done {
			return m, nil
		}
		return m, tick()
	case DoneMsg:
		m.done = true
		m.lastErr = msg.Err
	}
	return m, nil
}

func (m *Model) send(kind control.EventKind, value float64) {
	m.lastErr = m.rig.Enqueue(control.Event{Kind: kind, Value: value})
}

// draw renders a top-down view: chassis heading, camera heading, the
// target bearing (dotted) and the wrap trigger on either side (sparse).
func (m *Model) draw() {
	m.canvas.Clear()
	f := m.frame
	_, r := m.canvas.Center()
	radius := float64(r - 1)

	m.canvas.DrawRay(f.Yaw+m.limits.WrapTrigger, radius, 4)
	m.canvas.DrawRay(f.Yaw-m.limits.WrapTrigger, radius, 4)
	m.canvas.DrawRay(f.TargetBearing, radius, 2)
	m.canvas.DrawRay(f.Yaw, radius/2, 1)
	m.canvas.DrawRay(f.CameraHeading, radius*0.9, 1)
}

func (m Model) status() string {
	tu := m.frame.Turret
	switch {
	case m.done:
		return m.styles.bad.Render("STOPPED")
	case m.frame.Jog != 0:
		return m.styles.warn.Render(fmt.Sprintf("JOG %+.1f", m.frame.Jog))
	case tu.Wrapping && tu.InSearchPhase:
		return m.styles.warn.Render(fmt.Sprintf("WRAPPING %+d, searching", tu.WrapDirection))
	case tu.Wrapping:
		return m.styles.warn.Render(fmt.Sprintf("WRAPPING %+d", tu.WrapDirection))
	}
	return m.styles.ok.Render("TRACKING")
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

func (m Model) View() string {
	m.draw()
	f := m.frame
	tu, hd := f.Turret, f.Heading

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(m.row("Time", fmt.Sprintf("%.2fs", f.Time)))
	s.WriteString(m.row("Turret", fmt.Sprintf("%.1f°", tu.AngleDegrees)))
	s.WriteString(m.row("Output", fmt.Sprintf("%+.3f", tu.Output)))
	s.WriteString(m.row("Track speed", fmt.Sprintf("%.1fx", tu.TrackingSpeed)))
	s.WriteString(m.row("Wraps", fmt.Sprintf("%d (last %s)", tu.WrapCount, tu.LastExit)))
	if tu.Wrapping {
		s.WriteString(m.row("Wrap travel", ProgressBar(tu.WrapTravel/m.limits.WrapMaxTravel, 16)))
	}
	target := "lost"
	if f.Vision.Visible {
		target = fmt.Sprintf("%+.1f°", f.Vision.Offset)
	}
	s.WriteString(m.row("Target", target))
	s.WriteString(m.row("Yaw", fmt.Sprintf("%.1f°", f.Yaw)))

	turn := hd.Mode
	if hd.Active {
		turn = fmt.Sprintf("%s → %.0f° (err %.1f°)", hd.Mode, hd.Target, hd.Error)
	} else if hd.Outcome != "" && hd.Outcome != "none" {
		turn = fmt.Sprintf("%s, last %s", hd.Mode, hd.Outcome)
	}
	s.WriteString(m.row("Auto-turn", turn))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("turret deg"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}
	if m.lastErr != nil {
		s.WriteString(m.styles.bad.Render(m.lastErr.Error()) + "\n")
	}
	s.WriteString(m.styles.help.Render(Separator(40) + "\n←→:Jog SP:Stop 1/2/3:Turn H:Home\nC:Cancel wrap X:Cancel turn +/-:Speed Q:Quit"))

	canvasView := m.styles.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.stats.Render(s.String()))
	if m.help {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  ←/A  →/D   jog the turret (overrides tracking)
  Space/S    stop jogging
  1 2 3      turn the chassis +90, -90, 180
  X          cancel the auto-turn
  C          cancel a wrap
  H          make the current turret angle home
  + -        tracking speed
  T          cycle themes
  ?          toggle this help
  Q          quit
`
