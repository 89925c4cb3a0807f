package ui

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tempoflow-ai/tempoflow/internal/task"
)

var titleCase = cases.Title(language.English)

// PriorityLabel is the capitalized priority, e.g. "High".
func PriorityLabel(p task.Priority) string {
	return titleCase.String(string(p))
}

// RenderTasks renders tasks as a table. Overdue due dates are flagged
// relative to now.
func RenderTasks(tasks []task.Task, now time.Time) string {
	if len(tasks) == 0 {
		return StyleSubtle.Render(" No tasks yet. Add one with: tempoflow task add \"Title\"") + "\n"
	}

	tbl := &Table{
		Headers:  []string{"ID", "", "Priority", "Title", "Due"},
		MaxWidth: 48,
	}
	open := 0
	for _, t := range tasks {
		status := "○"
		if t.Completed {
			status = "✓"
		} else {
			open++
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
			if t.IsOverdue(now) {
				due += " !"
			}
		}
		tbl.Rows = append(tbl.Rows, []string{
			strings.TrimPrefix(t.ID, task.IDPrefix),
			status,
			PriorityLabel(t.Priority),
			t.Title,
			due,
		})
	}

	var sb strings.Builder
	sb.WriteString(tbl.Render())
	sb.WriteString(StyleSubtle.Render(fmt.Sprintf(" %d tasks, %d open", len(tasks), open)))
	sb.WriteString("\n")
	return sb.String()
}

// RenderTask renders a single task in detail.
func RenderTask(t task.Task) string {
	var sb strings.Builder
	status := StyleWarning.Render("open")
	if t.Completed {
		status = StyleSuccess.Render("done")
	}
	fmt.Fprintf(&sb, "%s %s\n", StyleTitle.Render(t.Title), StyleSubtle.Render("("+t.ID+")"))
	fmt.Fprintf(&sb, "  Status:   %s\n", status)
	fmt.Fprintf(&sb, "  Priority: %s\n", PriorityStyle(t.Priority).Render(PriorityLabel(t.Priority)))
	if t.DueDate != nil {
		fmt.Fprintf(&sb, "  Due:      %s\n", t.DueDate)
	}
	if t.Description != "" {
		fmt.Fprintf(&sb, "  %s\n", WrapText(t.Description, 72))
	}
	fmt.Fprintf(&sb, "  Created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	return sb.String()
}
