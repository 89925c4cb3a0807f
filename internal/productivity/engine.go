// Package productivity derives a weighted productivity score and
// natural-language insights from task and focus-session history.
//
// The engine is a pure computation over snapshot inputs: it performs no I/O,
// holds no mutable state, and is safe to call from any goroutine. Callers
// recompute whenever the underlying collections or the timeframe change.
//
// Unlike a literal reading of the rate rules, an insight about a rate is only
// produced when that rate has records in the window; an empty window gets the
// on-track message alone.
package productivity

import (
	"math"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

// Component weights of the overall score. They sum to 1.
const (
	WeightTaskCompletion  = 0.40
	WeightFocusEfficiency = 0.35
	WeightConsistency     = 0.25
)

// DefaultTimeframeDays is the trailing window used when callers have no preference.
const DefaultTimeframeDays = 7

// Metrics is the engine output. Percentages are integers in 0..100.
type Metrics struct {
	TaskCompletionRate     int      `json:"taskCompletionRate"`
	FocusSessionEfficiency int      `json:"focusSessionEfficiency"`
	ConsistencyScore       int      `json:"consistencyScore"`
	OverallScore           int      `json:"overallScore"`
	Insights               []string `json:"insights"`

	// Supporting figures, not part of the score.
	TimeframeDays              int  `json:"timeframeDays"`
	TasksInWindow              int  `json:"tasksInWindow"`
	SessionsInWindow           int  `json:"sessionsInWindow"`
	TotalFocusMinutes          int  `json:"totalFocusMinutes"`
	ActiveDays                 int  `json:"activeDays"`
	HighPriorityCompletionRate int  `json:"highPriorityCompletionRate"`
	OptimalHour                *int `json:"optimalHour,omitempty"`
	// ConsistencyClamped is set when more active days than window days were
	// counted, which means day bucketing and window filtering disagreed.
	ConsistencyClamped bool `json:"consistencyClamped,omitempty"`
}

// Engine computes Metrics relative to a clock and a time zone.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock fixes the reference time used for windowing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone used to derive calendar days and hours.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// NewEngine returns an engine using time.Now and time.Local unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate scores tasks and sessions over the trailing timeframeDays using
// the wall clock and local time zone.
func Calculate(tasks []task.Task, sessions []focus.Session, timeframeDays int) Metrics {
	return NewEngine().Calculate(tasks, sessions, timeframeDays)
}

// Calculate scores the unfiltered collections over the trailing window.
// A non-positive timeframe is treated as an empty window.
func (e *Engine) Calculate(tasks []task.Task, sessions []focus.Session, timeframeDays int) Metrics {
	if timeframeDays <= 0 {
		return Metrics{Insights: []string{InsightOnTrack}}
	}

	now := e.now().In(e.loc)
	cutoff := now.AddDate(0, 0, -timeframeDays)

	recentTasks := windowTasks(tasks, cutoff)
	recentSessions := windowSessions(sessions, cutoff)

	completedTasks := 0
	for _, t := range recentTasks {
		if t.Completed {
			completedTasks++
		}
	}
	taskCompletionRate := percent(completedTasks, len(recentTasks))

	completedSessions := 0
	totalFocusMinutes := 0
	days := make(map[string]struct{})
	for _, s := range recentSessions {
		if s.Completed {
			completedSessions++
		}
		totalFocusMinutes += s.Duration
		days[s.Date.In(e.loc).Format("2006-01-02")] = struct{}{}
	}
	focusEfficiency := percent(completedSessions, len(recentSessions))

	activeDays := len(days)
	consistency := percent(activeDays, timeframeDays)
	clamped := false
	if consistency > 100 {
		consistency = 100
		clamped = true
	}

	overall := OverallScore(taskCompletionRate, focusEfficiency, consistency)

	highRate, highCount := priorityCompletionRate(recentTasks, task.PriorityHigh)
	optimal, hasOptimal := detectOptimalHour(recentSessions, e.loc)

	m := Metrics{
		TaskCompletionRate:         taskCompletionRate,
		FocusSessionEfficiency:     focusEfficiency,
		ConsistencyScore:           consistency,
		OverallScore:               overall,
		TimeframeDays:              timeframeDays,
		TasksInWindow:              len(recentTasks),
		SessionsInWindow:           len(recentSessions),
		TotalFocusMinutes:          totalFocusMinutes,
		ActiveDays:                 activeDays,
		HighPriorityCompletionRate: highRate,
		ConsistencyClamped:         clamped,
	}
	if hasOptimal {
		m.OptimalHour = &optimal
	}
	m.Insights = generateInsights(insightInput{
		metrics:           m,
		highPriorityTasks: highCount,
		optimalHour:       optimal,
		hasOptimal:        hasOptimal,
	})
	return m
}

// OverallScore blends the three component scores with the fixed weights.
func OverallScore(taskCompletionRate, focusEfficiency, consistency int) int {
	return round(float64(taskCompletionRate)*WeightTaskCompletion +
		float64(focusEfficiency)*WeightFocusEfficiency +
		float64(consistency)*WeightConsistency)
}

// windowTasks keeps tasks created at or after cutoff. Zero timestamps, which
// is how unparseable stored dates decode, never pass.
func windowTasks(tasks []task.Task, cutoff time.Time) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CreatedAt.IsZero() || t.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func windowSessions(sessions []focus.Session, cutoff time.Time) []focus.Session {
	out := make([]focus.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Date.IsZero() || s.Date.Before(cutoff) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// priorityCompletionRate returns the completion percentage for one priority
// and how many tasks had it. The rate is 0 when there are none.
func priorityCompletionRate(tasks []task.Task, p task.Priority) (rate, count int) {
	done := 0
	for _, t := range tasks {
		if t.Priority != p {
			continue
		}
		count++
		if t.Completed {
			done++
		}
	}
	return percent(done, count), count
}

// percent returns round(part/total*100), or 0 for an empty total.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return round(float64(part) / float64(total) * 100)
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
