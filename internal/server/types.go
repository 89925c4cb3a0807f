package server

import (
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

// CreateTaskRequest is the payload for POST /api/tasks
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *task.Date `json:"dueDate"`
}

// EditTaskRequest is the payload for PATCH /api/tasks/{id}. Absent fields
// are left unchanged.
type EditTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *task.Date `json:"dueDate"`
	ClearDue    bool       `json:"clearDueDate"`
}

// RecordSessionRequest is the payload for POST /api/sessions. Date defaults
// to the server's clock.
type RecordSessionRequest struct {
	ID        string `json:"id"`
	Duration  int    `json:"duration"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
	TaskID    string `json:"taskId"`
}

// HealthResponse is the response for /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
