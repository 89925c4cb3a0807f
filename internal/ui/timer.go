package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempoflow-ai/tempoflow/internal/focus"
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// TimerModel is the interactive Pomodoro screen. It drives a focus.Timer
// once per second and hands every finished or abandoned focus interval to
// the session callback.
type TimerModel struct {
	timer     *focus.Timer
	bar       progress.Model
	onSession func(focus.Session)
	now       func() time.Time
	label     string
	status    string
	quitting  bool
}

// TimerOption configures a TimerModel.
type TimerOption func(*TimerModel)

// WithTaskLabel shows what the session is for.
func WithTaskLabel(label string) TimerOption {
	return func(m *TimerModel) { m.label = Truncate(label, 48) }
}

// WithTimerClock overrides time.Now for key presses.
func WithTimerClock(now func() time.Time) TimerOption {
	return func(m *TimerModel) { m.now = now }
}

// NewTimerModel wraps timer. onSession may be nil.
func NewTimerModel(timer *focus.Timer, onSession func(focus.Session), opts ...TimerOption) TimerModel {
	m := TimerModel{
		timer:     timer,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		onSession: onSession,
		now:       time.Now,
		status:    "space to start",
	}
	m.bar.Width = 40
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the one-second ticker.
func (m TimerModel) Init() tea.Cmd {
	return tick()
}

// Update handles keys and ticks.
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "p":
			m.timer.Toggle(m.now())
			if m.timer.Active() {
				m.status = "running"
			} else {
				m.status = "paused"
			}
		case "r":
			m.report(m.timer.Reset(m.now()))
			m.status = "reset"
		case "s":
			m.report(m.timer.SwitchMode(m.now()))
			m.status = fmt.Sprintf("switched to %s", m.timer.Mode())
		case "q", "ctrl+c", "esc":
			m.report(m.timer.Abandon(m.now()))
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		if tr := m.timer.Tick(time.Time(msg)); tr != nil {
			m.report(tr.Session)
			if tr.From == focus.ModeFocus {
				m.status = "focus session complete, take a break"
			} else {
				m.status = "break over, back to focus"
			}
			if !tr.AutoStart {
				m.status += " (space to start)"
			}
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		return m, nil
	}
	return m, nil
}

func (m *TimerModel) report(s *focus.Session) {
	if s != nil && m.onSession != nil {
		m.onSession(*s)
	}
}

// View renders the timer screen.
func (m TimerModel) View() string {
	if m.quitting {
		return ""
	}
	modeStyle := StyleSuccess
	modeLabel := "FOCUS"
	if m.timer.Mode() == focus.ModeBreak {
		modeStyle = lipgloss.NewStyle().Foreground(ColorCyan)
		modeLabel = "BREAK"
	}

	var sb strings.Builder
	sb.WriteString("\n ")
	sb.WriteString(modeStyle.Bold(true).Render(modeLabel))
	if m.label != "" {
		sb.WriteString(StyleSubtle.Render("  " + m.label))
	}
	sb.WriteString("\n\n ")
	sb.WriteString(StyleTimer.Render(m.timer.Format()))
	sb.WriteString("\n\n ")
	sb.WriteString(m.bar.ViewAs(m.timer.Progress() / 100))
	sb.WriteString("\n\n ")
	sb.WriteString(StyleSubtle.Render(m.status))
	sb.WriteString("\n ")
	sb.WriteString(StyleSubtle.Render("space start/pause • r reset • s switch • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

// RunTimer runs the model full screen until the user quits.
func RunTimer(m TimerModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
