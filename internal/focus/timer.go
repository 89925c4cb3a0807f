package focus

import (
	"fmt"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// Mode is the phase the timer is counting down.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// Transition reports a mode change caused by the countdown reaching zero.
// Session is set when a focus interval finished.
type Transition struct {
	From      Mode
	To        Mode
	AutoStart bool
	Session   *Session
}

// Timer is the Pomodoro countdown. It decrements once per Tick and flips
// between focus and break at zero. It is not safe for concurrent use; the
// terminal UI drives it from a single goroutine.
type Timer struct {
	settings  config.TimerSettings
	mode      Mode
	active    bool
	remaining int // seconds
	startedAt time.Time
}

// NewTimer returns an idle timer in focus mode. Settings are clamped.
func NewTimer(settings config.TimerSettings) *Timer {
	t := &Timer{mode: ModeFocus}
	t.settings = clampTimer(settings)
	t.remaining = t.total(ModeFocus)
	return t
}

func clampTimer(s config.TimerSettings) config.TimerSettings {
	full := config.Defaults()
	full.Timer = s
	return full.Normalize().Timer
}

// Settings returns the clamped settings in use.
func (t *Timer) Settings() config.TimerSettings { return t.settings }

// Mode returns the current mode.
func (t *Timer) Mode() Mode { return t.mode }

// Active reports whether the countdown is running.
func (t *Timer) Active() bool { return t.active }

// Remaining returns the seconds left in the current mode.
func (t *Timer) Remaining() int { return t.remaining }

func (t *Timer) total(m Mode) int {
	if m == ModeBreak {
		return t.settings.BreakMinutes * 60
	}
	return t.settings.FocusMinutes * 60
}

// Progress returns the percentage of the current interval still remaining.
func (t *Timer) Progress() float64 {
	total := t.total(t.mode)
	if total == 0 {
		return 0
	}
	return float64(t.remaining) / float64(total) * 100
}

// Format renders the remaining time as MM:SS.
func (t *Timer) Format() string {
	return FormatSeconds(t.remaining)
}

// FormatSeconds renders seconds as zero-padded MM:SS.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Toggle starts or pauses the countdown.
func (t *Timer) Toggle(now time.Time) {
	if !t.active && t.mode == ModeFocus && t.remaining == t.total(ModeFocus) {
		t.startedAt = now
	}
	t.active = !t.active
}

// Tick advances the countdown by one second. It returns a Transition when
// the interval reaches zero.
func (t *Timer) Tick(now time.Time) *Transition {
	if !t.active {
		return nil
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return nil
	}

	tr := &Transition{From: t.mode}
	if t.mode == ModeFocus {
		started := t.startedAt
		if started.IsZero() {
			started = now.Add(-time.Duration(t.settings.FocusMinutes) * time.Minute)
		}
		s := NewSession(t.settings.FocusMinutes, true, started)
		tr.Session = &s
		t.mode = ModeBreak
		t.active = t.settings.AutoStartBreaks
	} else {
		t.mode = ModeFocus
		t.active = t.settings.AutoStartFocus
		if t.active {
			t.startedAt = now
		}
	}
	tr.To = t.mode
	tr.AutoStart = t.active
	t.remaining = t.total(t.mode)
	return tr
}

// Reset stops the countdown and restores the current mode's full duration.
// Discarding a partly run focus interval returns it as an abandoned session.
func (t *Timer) Reset(now time.Time) *Session {
	abandoned := t.abandon(now)
	t.active = false
	t.remaining = t.total(t.mode)
	return abandoned
}

// SwitchMode stops the countdown and jumps to the other mode.
func (t *Timer) SwitchMode(now time.Time) *Session {
	abandoned := t.abandon(now)
	t.active = false
	if t.mode == ModeFocus {
		t.mode = ModeBreak
	} else {
		t.mode = ModeFocus
	}
	t.remaining = t.total(t.mode)
	return abandoned
}

// ApplySettings swaps in new settings (clamped) and restarts the current
// mode's countdown from its new full duration.
func (t *Timer) ApplySettings(s config.TimerSettings) {
	t.settings = clampTimer(s)
	t.remaining = t.total(t.mode)
}

// Abandon ends the timer, reporting any unfinished focus interval.
func (t *Timer) Abandon(now time.Time) *Session {
	s := t.abandon(now)
	t.active = false
	return s
}

func (t *Timer) abandon(now time.Time) *Session {
	if t.mode != ModeFocus {
		return nil
	}
	elapsed := t.total(ModeFocus) - t.remaining
	if elapsed <= 0 {
		return nil
	}
	minutes := elapsed / 60
	if minutes < 1 {
		minutes = 1
	}
	started := t.startedAt
	if started.IsZero() {
		started = now.Add(-time.Duration(elapsed) * time.Second)
	}
	s := NewSession(minutes, false, started)
	t.startedAt = time.Time{}
	return &s
}
