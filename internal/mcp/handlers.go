package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/productivity"
	"github.com/tempoflow-ai/tempoflow/internal/task"
	"github.com/tempoflow-ai/tempoflow/internal/util"
)

func validationError(tool, field, msg string) *ToolResult {
	return &ToolResult{Tool: tool, Error: &ToolError{Code: CodeValidation, Field: field, Message: msg}}
}

// failure classifies err. Only storage failures come back as a Go error.
func failure(tool string, err error) (*ToolResult, error) {
	code := ""
	switch {
	case errors.Is(err, task.ErrNotFound), errors.Is(err, util.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, util.ErrAmbiguousID):
		code = CodeAmbiguous
	case errors.Is(err, task.ErrInvalid), errors.Is(err, task.ErrInvalidPriority), errors.Is(err, focus.ErrInvalidSession):
		code = CodeValidation
	default:
		return nil, err
	}
	return &ToolResult{Tool: tool, Error: &ToolError{Code: code, Message: err.Error()}}, nil
}

// HandleListTasks lists tasks, open ones first by priority when status=open.
func HandleListTasks(ctx context.Context, a *app.Context, params ListTasksParams) (*ToolResult, error) {
	var f task.Filter
	switch strings.ToLower(strings.TrimSpace(params.Status)) {
	case "", "all":
	case "open", "pending":
		open := false
		f.Completed = &open
	case "done", "completed":
		done := true
		f.Completed = &done
	default:
		return validationError(ToolListTasks, "status", fmt.Sprintf("invalid status %q, must be one of: all, open, done", params.Status)), nil
	}
	if params.Priority != "" {
		p, err := task.ParsePriority(params.Priority)
		if err != nil {
			return validationError(ToolListTasks, "priority", err.Error()), nil
		}
		f.Priority = p
	}

	tasks, err := a.Tasks.List(ctx, f)
	if err != nil {
		return failure(ToolListTasks, err)
	}
	return &ToolResult{Tool: ToolListTasks, Content: FormatTasks(tasks, a.Now())}, nil
}

// HandleAddTask creates a task.
func HandleAddTask(ctx context.Context, a *app.Context, params AddTaskParams) (*ToolResult, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return validationError(ToolAddTask, "title", "title is required"), nil
	}
	p, err := task.ParsePriority(params.Priority)
	if err != nil {
		return validationError(ToolAddTask, "priority", err.Error()), nil
	}
	var due *task.Date
	if params.DueDate != "" {
		d, err := task.ParseDate(params.DueDate)
		if err != nil {
			return validationError(ToolAddTask, "due_date", "due_date must be YYYY-MM-DD"), nil
		}
		due = &d
	}

	t, err := a.Tasks.Add(ctx, title, params.Description, p, due)
	if err != nil {
		return failure(ToolAddTask, err)
	}
	return &ToolResult{Tool: ToolAddTask, Content: "Added task.\n\n" + FormatTask(t)}, nil
}

// HandleToggleTask flips a task between open and done.
func HandleToggleTask(ctx context.Context, a *app.Context, params ToggleTaskParams) (*ToolResult, error) {
	if strings.TrimSpace(params.TaskID) == "" {
		return validationError(ToolToggleTask, "task_id", "task_id is required"), nil
	}
	id, err := a.Tasks.Resolve(ctx, params.TaskID)
	if err != nil {
		return failure(ToolToggleTask, err)
	}
	t, err := a.Tasks.Toggle(ctx, id)
	if err != nil {
		return failure(ToolToggleTask, err)
	}
	verb := "Reopened"
	if t.Completed {
		verb = "Completed"
	}
	return &ToolResult{Tool: ToolToggleTask, Content: verb + " task.\n\n" + FormatTask(t)}, nil
}

// HandleRecordSession stores a finished or abandoned focus interval.
func HandleRecordSession(ctx context.Context, a *app.Context, params RecordSessionParams) (*ToolResult, error) {
	if params.Duration <= 0 {
		return validationError(ToolRecordSession, "duration", "duration must be a positive number of minutes"), nil
	}
	date := a.Now()
	if params.Date != "" {
		parsed, err := time.Parse(time.RFC3339, params.Date)
		if err != nil {
			return validationError(ToolRecordSession, "date", "date must be RFC 3339, e.g. 2025-06-15T09:30:00Z"), nil
		}
		date = parsed
	}
	var taskID string
	if params.TaskID != "" {
		id, err := a.Tasks.Resolve(ctx, params.TaskID)
		if err != nil {
			return failure(ToolRecordSession, err)
		}
		taskID = id
	}

	s, err := a.Sessions.Record(ctx, focus.Session{
		Duration:  params.Duration,
		Completed: params.Completed,
		Date:      date,
		TaskID:    taskID,
	})
	if err != nil {
		return failure(ToolRecordSession, err)
	}
	return &ToolResult{Tool: ToolRecordSession, Content: FormatSession(s)}, nil
}

// HandleProductivityScore scores the trailing window.
func HandleProductivityScore(ctx context.Context, a *app.Context, params ProductivityScoreParams) (*ToolResult, error) {
	days := params.Days
	if days == 0 {
		days = productivity.DefaultTimeframeDays
	}
	if days < 1 || days > config.MaxTimeframeDays {
		return validationError(ToolProductivityScore, "days", fmt.Sprintf("days must be between 1 and %d", config.MaxTimeframeDays)), nil
	}
	m, err := a.Score(ctx, days, app.SurfaceMCP)
	if err != nil {
		return failure(ToolProductivityScore, err)
	}
	return &ToolResult{Tool: ToolProductivityScore, Content: FormatMetrics(m)}, nil
}
