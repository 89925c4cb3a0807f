package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/productivity"
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

// FormatTasks renders tasks as a Markdown checklist.
func FormatTasks(tasks []task.Task, now time.Time) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}
	var sb strings.Builder
	open := 0
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		} else {
			open++
		}
		fmt.Fprintf(&sb, "- %s **%s** `%s` (%s", box, t.Title, t.ID, t.Priority)
		if t.DueDate != nil {
			fmt.Fprintf(&sb, ", due %s", t.DueDate)
			if t.IsOverdue(now) {
				sb.WriteString(", overdue")
			}
		}
		sb.WriteString(")\n")
	}
	fmt.Fprintf(&sb, "\n%d tasks, %d open", len(tasks), open)
	return sb.String()
}

// FormatTask renders one task.
func FormatTask(t task.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n", t.Title)
	fmt.Fprintf(&sb, "- **ID**: `%s`\n", t.ID)
	fmt.Fprintf(&sb, "- **Priority**: %s\n", t.Priority)
	status := "open"
	if t.Completed {
		status = "done"
	}
	fmt.Fprintf(&sb, "- **Status**: %s\n", status)
	if t.DueDate != nil {
		fmt.Fprintf(&sb, "- **Due**: %s\n", t.DueDate)
	}
	if t.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", t.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatSession confirms a recorded session.
func FormatSession(s focus.Session) string {
	state := "completed"
	if !s.Completed {
		state = "abandoned"
	}
	out := fmt.Sprintf("Recorded %s focus session `%s`: %d min at %s.", state, s.ID, s.Duration, s.Date.Format(time.RFC3339))
	if s.TaskID != "" {
		out += fmt.Sprintf(" Linked to `%s`.", s.TaskID)
	}
	return out
}

// FormatMetrics renders the score breakdown and insights.
func FormatMetrics(m productivity.Metrics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Productivity score: %d/100 (last %d days)\n\n", m.OverallScore, m.TimeframeDays)
	sb.WriteString("| Component | Score | Weight | Detail |\n|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| Task completion | %d%% | %.2f | %d tasks |\n", m.TaskCompletionRate, productivity.WeightTaskCompletion, m.TasksInWindow)
	fmt.Fprintf(&sb, "| Focus efficiency | %d%% | %.2f | %d sessions, %d min |\n", m.FocusSessionEfficiency, productivity.WeightFocusEfficiency, m.SessionsInWindow, m.TotalFocusMinutes)
	fmt.Fprintf(&sb, "| Consistency | %d%% | %.2f | %d active days |\n", m.ConsistencyScore, productivity.WeightConsistency, m.ActiveDays)
	if len(m.Insights) > 0 {
		sb.WriteString("\n## Insights\n")
		for _, in := range m.Insights {
			fmt.Fprintf(&sb, "- %s\n", in)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatError returns a Markdown error for the calling model.
func FormatError(e *ToolError) string {
	if e.Field != "" {
		return fmt.Sprintf("## ❌ Validation Error\n\n**Field**: `%s`\n**Details**: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("## ❌ Error (%s)\n\n**Details**: %s", e.Code, e.Message)
}
