package ui

import (
	"fmt"
	"strings"

	"github.com/tempoflow-ai/tempoflow/internal/productivity"
)

const barWidth = 20

// ScoreBar draws a filled bar for a 0..100 value.
func ScoreBar(value int) string {
	value = min(max(value, 0), 100)
	filled := (value*barWidth + 50) / 100
	return ScoreStyle(value).Render(strings.Repeat("█", filled)) +
		StyleSubtle.Render(strings.Repeat("░", barWidth-filled))
}

// RenderMetrics renders the productivity report: the overall score, one bar
// per component with its weight, supporting figures, then the insights.
func RenderMetrics(m productivity.Metrics) string {
	var sb strings.Builder

	sb.WriteString(RenderPageHeader(
		fmt.Sprintf("Productivity score: %s", ScoreStyle(m.OverallScore).Render(fmt.Sprintf("%d/100", m.OverallScore))),
		fmt.Sprintf("last %d days", m.TimeframeDays),
	))
	sb.WriteString("\n")

	rows := []struct {
		label  string
		value  int
		weight float64
		detail string
	}{
		{"Task completion", m.TaskCompletionRate, productivity.WeightTaskCompletion,
			fmt.Sprintf("%d tasks", m.TasksInWindow)},
		{"Focus efficiency", m.FocusSessionEfficiency, productivity.WeightFocusEfficiency,
			fmt.Sprintf("%d sessions, %d min", m.SessionsInWindow, m.TotalFocusMinutes)},
		{"Consistency", m.ConsistencyScore, productivity.WeightConsistency,
			fmt.Sprintf("%d active days", m.ActiveDays)},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, " %-17s %s %3d%%  %s\n",
			r.label,
			ScoreBar(r.value),
			r.value,
			StyleSubtle.Render(fmt.Sprintf("x%.2f  %s", r.weight, r.detail)),
		)
	}

	if len(m.Insights) > 0 {
		sb.WriteString("\n")
		sb.WriteString(" " + StyleSectionTitle.Render("Insights") + "\n")
		for _, in := range m.Insights {
			fmt.Fprintf(&sb, "  • %s\n", in)
		}
	}
	return sb.String()
}
