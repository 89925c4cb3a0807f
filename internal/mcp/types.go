// Package mcp provides types and handlers for the MCP tool server.
package mcp

// Tool names.
const (
	ToolListTasks         = "list_tasks"
	ToolAddTask           = "add_task"
	ToolToggleTask        = "toggle_task"
	ToolRecordSession     = "record_session"
	ToolProductivityScore = "productivity_score"
)

// Error codes carried in ToolError.
const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeAmbiguous  = "ambiguous"
	CodeInternal   = "internal"
)

// ToolError is a failure the calling model can read and correct.
type ToolError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ToolError) Error() string { return e.Code + ": " + e.Message }

// ToolResult is what every handler returns. Exactly one of Content and
// Error is set.
type ToolResult struct {
	Tool    string     `json:"tool"`
	Content string     `json:"content,omitempty"`
	Error   *ToolError `json:"error,omitempty"`
}

// ListTasksParams defines the parameters for list_tasks.
type ListTasksParams struct {
	// Status filters by completion. One of: all (default), open, done
	Status string `json:"status,omitempty"`

	// Priority filters by priority. One of: low, medium, high
	Priority string `json:"priority,omitempty"`
}

// AddTaskParams defines the parameters for add_task.
type AddTaskParams struct {
	// Title is required, 1..255 characters.
	Title string `json:"title"`

	Description string `json:"description,omitempty"`

	// Priority defaults to medium.
	Priority string `json:"priority,omitempty"`

	// DueDate is YYYY-MM-DD.
	DueDate string `json:"due_date,omitempty"`
}

// ToggleTaskParams defines the parameters for toggle_task.
type ToggleTaskParams struct {
	// TaskID is a full task ID or a unique prefix.
	TaskID string `json:"task_id"`
}

// RecordSessionParams defines the parameters for record_session.
type RecordSessionParams struct {
	// Duration is in whole minutes and must be positive.
	Duration int `json:"duration"`

	// Completed is false for abandoned intervals.
	Completed bool `json:"completed"`

	// Date is RFC 3339. Defaults to now.
	Date string `json:"date,omitempty"`

	// TaskID optionally links the session to a task (ID or prefix).
	TaskID string `json:"task_id,omitempty"`
}

// ProductivityScoreParams defines the parameters for productivity_score.
type ProductivityScoreParams struct {
	// Days is the trailing window, 1..365. Defaults to 7.
	Days int `json:"days,omitempty"`
}
