package productivity

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

var refNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return refNow }), WithLocation(time.UTC))
}

func makeTasks(n, completed int, p task.Priority, created time.Time) []task.Task {
	out := make([]task.Task, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, task.Task{
			ID:        fmt.Sprintf("task-%d", i),
			Title:     fmt.Sprintf("task %d", i),
			Priority:  p,
			Completed: i < completed,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	return out
}

func sessionAt(t time.Time, completed bool) focus.Session {
	return focus.Session{ID: "s-" + t.Format(time.RFC3339), Duration: 25, Completed: completed, Date: t}
}

func TestCalculate_EmptyInput(t *testing.T) {
	m := testEngine().Calculate(nil, nil, 7)

	assert.Equal(t, 0, m.TaskCompletionRate)
	assert.Equal(t, 0, m.FocusSessionEfficiency)
	assert.Equal(t, 0, m.ConsistencyScore)
	assert.Equal(t, 0, m.OverallScore)
	assert.Equal(t, []string{InsightOnTrack}, m.Insights)
	assert.Nil(t, m.OptimalHour)
}

func TestCalculate_CompletionBoundaryAtEighty(t *testing.T) {
	tasks := makeTasks(10, 8, task.PriorityMedium, refNow.Add(-24*time.Hour))
	m := testEngine().Calculate(tasks, nil, 7)

	assert.Equal(t, 80, m.TaskCompletionRate)
	assert.NotContains(t, m.Insights, InsightHighCompletion)
	assert.NotContains(t, m.Insights, InsightLowCompletion)

	tasks = makeTasks(10, 9, task.PriorityMedium, refNow.Add(-24*time.Hour))
	m = testEngine().Calculate(tasks, nil, 7)
	assert.Equal(t, 90, m.TaskCompletionRate)
	assert.Contains(t, m.Insights, InsightHighCompletion)
}

func TestCalculate_CompletionBoundaryAtThirty(t *testing.T) {
	tasks := makeTasks(10, 3, task.PriorityLow, refNow.Add(-time.Hour))
	m := testEngine().Calculate(tasks, nil, 7)
	assert.Equal(t, 30, m.TaskCompletionRate)
	assert.NotContains(t, m.Insights, InsightLowCompletion)

	tasks = makeTasks(10, 2, task.PriorityLow, refNow.Add(-time.Hour))
	m = testEngine().Calculate(tasks, nil, 7)
	assert.Contains(t, m.Insights, InsightLowCompletion)
}

func TestCalculate_OptimalTimeAtNine(t *testing.T) {
	var sessions []focus.Session
	for d := 1; d <= 6; d++ {
		day := refNow.AddDate(0, 0, -d)
		sessions = append(sessions, sessionAt(time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC), true))
	}

	m := testEngine().Calculate(nil, sessions, 7)

	require.NotNil(t, m.OptimalHour)
	assert.Equal(t, 9, *m.OptimalHour)
	assert.Equal(t, 100, m.FocusSessionEfficiency)
	assert.Equal(t, 6, m.ActiveDays)
	assert.Equal(t, 86, m.ConsistencyScore)
	assert.Equal(t, 150, m.TotalFocusMinutes)
	assert.Equal(t, []string{
		InsightHighFocus,
		InsightHighConsistency,
		"You seem most productive during 9 AM - 11 AM. Consider scheduling important tasks during this time.",
	}, m.Insights)
}

func TestCalculate_OldTaskExcluded(t *testing.T) {
	old := makeTasks(1, 1, task.PriorityHigh, refNow.AddDate(0, 0, -10))
	m := testEngine().Calculate(old, nil, 7)

	assert.Equal(t, 0, m.TasksInWindow)
	assert.Equal(t, 0, m.TaskCompletionRate)
	assert.Equal(t, []string{InsightOnTrack}, m.Insights)

	old[0].Completed = false
	m = testEngine().Calculate(old, nil, 7)
	assert.Equal(t, 0, m.TasksInWindow)
	assert.Equal(t, []string{InsightOnTrack}, m.Insights)
}

func TestCalculate_IncompleteHighPriority(t *testing.T) {
	tasks := makeTasks(1, 0, task.PriorityHigh, refNow.Add(-time.Hour))
	m := testEngine().Calculate(tasks, nil, 7)

	assert.Equal(t, 0, m.HighPriorityCompletionRate)
	assert.Equal(t, []string{InsightLowCompletion, InsightHighPriority}, m.Insights)
}

func TestCalculate_HighPriorityRuleSkippedWithoutHighTasks(t *testing.T) {
	tasks := makeTasks(4, 2, task.PriorityLow, refNow.Add(-time.Hour))
	m := testEngine().Calculate(tasks, nil, 7)
	assert.NotContains(t, m.Insights, InsightHighPriority)
	assert.Equal(t, []string{InsightOnTrack}, m.Insights)
}

func TestCalculate_NonPositiveTimeframe(t *testing.T) {
	tasks := makeTasks(3, 3, task.PriorityHigh, refNow.Add(-time.Hour))
	sessions := []focus.Session{sessionAt(refNow.Add(-time.Hour), true)}

	for _, days := range []int{0, -3} {
		m := testEngine().Calculate(tasks, sessions, days)
		assert.Equal(t, 0, m.OverallScore)
		assert.Equal(t, 0, m.TaskCompletionRate)
		assert.Equal(t, []string{InsightOnTrack}, m.Insights)
	}
}

func TestCalculate_ZeroTimestampsExcluded(t *testing.T) {
	tasks := []task.Task{{ID: "task-x", Title: "x", Priority: task.PriorityHigh, Completed: true}}
	sessions := []focus.Session{{ID: "s", Duration: 25, Completed: true}}

	m := testEngine().Calculate(tasks, sessions, 7)
	assert.Equal(t, 0, m.TasksInWindow)
	assert.Equal(t, 0, m.SessionsInWindow)
}

func TestCalculate_ConsistencyClamped(t *testing.T) {
	sessions := []focus.Session{
		sessionAt(refNow.Add(-23*time.Hour), true), // June 14
		sessionAt(refNow.Add(-3*time.Hour), true),  // June 15
	}
	m := testEngine().Calculate(nil, sessions, 1)

	assert.Equal(t, 2, m.ActiveDays)
	assert.Equal(t, 100, m.ConsistencyScore)
	assert.True(t, m.ConsistencyClamped)
	assert.LessOrEqual(t, m.OverallScore, 100)
}

func TestCalculate_WindowBoundaryInclusive(t *testing.T) {
	cutoff := refNow.AddDate(0, 0, -7)
	tasks := makeTasks(1, 1, task.PriorityMedium, cutoff)
	m := testEngine().Calculate(tasks, nil, 7)
	assert.Equal(t, 1, m.TasksInWindow)

	tasks = makeTasks(1, 1, task.PriorityMedium, cutoff.Add(-time.Second))
	m = testEngine().Calculate(tasks, nil, 7)
	assert.Equal(t, 0, m.TasksInWindow)
}

func TestCalculate_OptimalTieGoesToEarliestHour(t *testing.T) {
	var sessions []focus.Session
	for d := 1; d <= 3; d++ {
		day := refNow.AddDate(0, 0, -d)
		sessions = append(sessions,
			sessionAt(time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, time.UTC), true),
			sessionAt(time.Date(day.Year(), day.Month(), day.Day(), 9, 30, 0, 0, time.UTC), true),
		)
	}
	m := testEngine().Calculate(nil, sessions, 7)
	require.NotNil(t, m.OptimalHour)
	assert.Equal(t, 9, *m.OptimalHour)
}

func TestCalculate_OptimalNeedsHistory(t *testing.T) {
	var four []focus.Session
	for i := 1; i <= 4; i++ {
		four = append(four, sessionAt(refNow.Add(-time.Duration(i)*time.Hour), true))
	}
	m := testEngine().Calculate(nil, four, 7)
	assert.Nil(t, m.OptimalHour)

	five := append([]focus.Session{}, four[:2]...)
	for i := 5; i <= 7; i++ {
		five = append(five, sessionAt(refNow.Add(-time.Duration(i)*time.Hour), false))
	}
	m = testEngine().Calculate(nil, five, 7)
	assert.Nil(t, m.OptimalHour, "only two completed sessions")
}

func TestCalculate_HourUsesEngineLocation(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	e := NewEngine(WithClock(func() time.Time { return refNow }), WithLocation(plus2))

	var sessions []focus.Session
	for d := 1; d <= 5; d++ {
		day := refNow.AddDate(0, 0, -d)
		sessions = append(sessions, sessionAt(time.Date(day.Year(), day.Month(), day.Day(), 7, 0, 0, 0, time.UTC), true))
	}
	m := e.Calculate(nil, sessions, 7)
	require.NotNil(t, m.OptimalHour)
	assert.Equal(t, 9, *m.OptimalHour)
}

func TestCalculate_DoesNotMutateInputs(t *testing.T) {
	tasks := makeTasks(3, 1, task.PriorityHigh, refNow.Add(-time.Hour))
	sessions := []focus.Session{sessionAt(refNow.Add(-time.Hour), false)}
	tasksCopy := append([]task.Task{}, tasks...)
	sessionsCopy := append([]focus.Session{}, sessions...)

	first := testEngine().Calculate(tasks, sessions, 7)
	second := testEngine().Calculate(tasks, sessions, 7)

	assert.Equal(t, tasksCopy, tasks)
	assert.Equal(t, sessionsCopy, sessions)
	assert.Equal(t, first, second)
}

func TestCalculate_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	priorities := []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh}

	for i := 0; i < 200; i++ {
		var tasks []task.Task
		for j := rng.Intn(20); j > 0; j-- {
			created := refNow.Add(-time.Duration(rng.Intn(14*24)) * time.Hour)
			tasks = append(tasks, task.Task{
				ID:        fmt.Sprintf("task-%d", j),
				Priority:  priorities[rng.Intn(3)],
				Completed: rng.Intn(2) == 0,
				CreatedAt: created,
			})
		}
		var sessions []focus.Session
		for j := rng.Intn(30); j > 0; j-- {
			at := refNow.Add(time.Duration(rng.Intn(16*24)-14*24) * time.Hour)
			sessions = append(sessions, sessionAt(at, rng.Intn(3) > 0))
		}
		days := rng.Intn(14) + 1

		m := testEngine().Calculate(tasks, sessions, days)
		for _, v := range []int{m.TaskCompletionRate, m.FocusSessionEfficiency, m.ConsistencyScore, m.OverallScore} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
		assert.Equal(t, OverallScore(m.TaskCompletionRate, m.FocusSessionEfficiency, m.ConsistencyScore), m.OverallScore)
		require.NotEmpty(t, m.Insights)
		if len(m.Insights) > 1 {
			assert.NotContains(t, m.Insights, InsightOnTrack)
		}
	}
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, 0, OverallScore(0, 0, 0))
	assert.Equal(t, 100, OverallScore(100, 100, 100))
	assert.Equal(t, 63, OverallScore(80, 60, 40))
	assert.Equal(t, 40, OverallScore(100, 0, 0))
}

func TestFormatHour(t *testing.T) {
	cases := map[int]string{0: "12 AM", 1: "1 AM", 11: "11 AM", 12: "12 PM", 13: "1 PM", 23: "11 PM"}
	for h, want := range cases {
		assert.Equal(t, want, FormatHour(h), "hour %d", h)
	}
	assert.Equal(t, "9 AM - 11 AM", TimeRange(9))
	assert.Equal(t, "10 AM - 12 PM", TimeRange(10))
	assert.Equal(t, "11 PM - 1 AM", TimeRange(23))
}

// sessionsSameHour returns n sessions an hour before refNow, the first
// `completed` of them completed.
func sessionsSameHour(n, completed int) []focus.Session {
	out := make([]focus.Session, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, focus.Session{
			ID:        fmt.Sprintf("s-%d", i),
			Duration:  25,
			Completed: i < completed,
			Date:      refNow.Add(-time.Hour),
		})
	}
	return out
}

// sessionsOnDays returns one completed session on each of the last n days.
func sessionsOnDays(n int) []focus.Session {
	out := make([]focus.Session, 0, n)
	for d := 0; d < n; d++ {
		out = append(out, sessionAt(refNow.AddDate(0, 0, -d), true))
	}
	return out
}

func TestCalculate_InsightThresholds(t *testing.T) {
	recent := refNow.Add(-time.Hour)
	tests := []struct {
		name      string
		tasks     []task.Task
		sessions  []focus.Session
		days      int
		metric    func(Metrics) int
		wantValue int
		insight   string
		wantFired bool
	}{
		{"completion 29 is low", makeTasks(100, 29, task.PriorityLow, recent), nil, 7, tcr, 29, InsightLowCompletion, true},
		{"completion 30 is not low", makeTasks(10, 3, task.PriorityLow, recent), nil, 7, tcr, 30, InsightLowCompletion, false},
		{"completion 80 is not high", makeTasks(10, 8, task.PriorityLow, recent), nil, 7, tcr, 80, InsightHighCompletion, false},
		{"completion 81 is high", makeTasks(100, 81, task.PriorityLow, recent), nil, 7, tcr, 81, InsightHighCompletion, true},

		{"focus 39 is low", nil, sessionsSameHour(100, 39), 7, fse, 39, InsightLowFocus, true},
		{"focus 40 is not low", nil, sessionsSameHour(5, 2), 7, fse, 40, InsightLowFocus, false},
		{"focus 75 is not high", nil, sessionsSameHour(4, 3), 7, fse, 75, InsightHighFocus, false},
		{"focus 76 is high", nil, sessionsSameHour(25, 19), 7, fse, 76, InsightHighFocus, true},
		{"focus 80 is high", nil, sessionsSameHour(5, 4), 7, fse, 80, InsightHighFocus, true},

		{"consistency 49 is low", nil, sessionsOnDays(49), 100, cs, 49, InsightLowConsistency, true},
		{"consistency 50 is not low", nil, sessionsOnDays(5), 10, cs, 50, InsightLowConsistency, false},
		{"consistency 80 is not high", nil, sessionsOnDays(8), 10, cs, 80, InsightHighConsistency, false},
		{"consistency 81 is high", nil, sessionsOnDays(81), 100, cs, 81, InsightHighConsistency, true},
		{"consistency 86 is high", nil, sessionsOnDays(6), 7, cs, 86, InsightHighConsistency, true},

		{"high priority 49 fires", makeTasks(100, 49, task.PriorityHigh, recent), nil, 7, hpr, 49, InsightHighPriority, true},
		{"high priority 50 is quiet", makeTasks(2, 1, task.PriorityHigh, recent), nil, 7, hpr, 50, InsightHighPriority, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testEngine().Calculate(tt.tasks, tt.sessions, tt.days)
			require.Equal(t, tt.wantValue, tt.metric(m))
			if tt.wantFired {
				assert.Contains(t, m.Insights, tt.insight)
			} else {
				assert.NotContains(t, m.Insights, tt.insight)
			}
		})
	}
}

func tcr(m Metrics) int { return m.TaskCompletionRate }
func fse(m Metrics) int { return m.FocusSessionEfficiency }
func cs(m Metrics) int  { return m.ConsistencyScore }
func hpr(m Metrics) int { return m.HighPriorityCompletionRate }
