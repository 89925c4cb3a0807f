// Package calendar mirrors tasks that have a due date into Google Calendar
// as all-day events.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/tempoflow-ai/tempoflow/internal/task"
)

// Private extended properties written on every mirrored event.
const (
	PropTaskID   = "tempoflow_task_id"
	PropPriority = "tempoflow_priority"
)

// ErrNoDueDate is returned for tasks that cannot be placed on a calendar.
var ErrNoDueDate = errors.New("task has no due date")

// EventFromTask builds the all-day event for t. Completed tasks are marked
// transparent so they no longer block time.
func EventFromTask(t task.Task) (*gcal.Event, error) {
	if t.DueDate == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDueDate, t.ID)
	}
	day := t.DueDate.Time(time.UTC)
	next := day.AddDate(0, 0, 1)

	var desc strings.Builder
	if t.Description != "" {
		desc.WriteString(t.Description)
		desc.WriteString("\n\n")
	}
	fmt.Fprintf(&desc, "Priority: %s\nTempoFlow task %s", t.Priority, t.ID)

	summary := t.Title
	transparency := "opaque"
	if t.Completed {
		summary = "✓ " + t.Title
		transparency = "transparent"
	}

	return &gcal.Event{
		Summary:      summary,
		Description:  desc.String(),
		Start:        &gcal.EventDateTime{Date: day.Format("2006-01-02")},
		End:          &gcal.EventDateTime{Date: next.Format("2006-01-02")},
		Transparency: transparency,
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				PropTaskID:   t.ID,
				PropPriority: string(t.Priority),
			},
		},
	}, nil
}

// needsUpdate reports whether existing differs from want in any field we own.
func needsUpdate(existing, want *gcal.Event) bool {
	if existing.Summary != want.Summary || existing.Description != want.Description {
		return true
	}
	if existing.Transparency != want.Transparency {
		return true
	}
	if existing.Start == nil || existing.Start.Date != want.Start.Date {
		return true
	}
	if existing.End == nil || existing.End.Date != want.End.Date {
		return true
	}
	if existing.ExtendedProperties == nil || existing.ExtendedProperties.Private[PropPriority] != want.ExtendedProperties.Private[PropPriority] {
		return true
	}
	return false
}
