package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tempoflow-ai/tempoflow/internal/task"
)

const taskColumns = `id, title, description, priority, completed, due_date, created_at, updated_at`

// CreateTask inserts t. The ID must be unique.
func (s *SQLiteStore) CreateTask(ctx context.Context, t task.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, string(t.Priority), boolToInt(t.Completed),
		dueString(t.DueDate), formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

// GetTask returns the task with id or task.ErrNotFound.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("query task: %w", err)
	}
	return t, nil
}

// UpdateTask overwrites the mutable columns of an existing task. created_at
// is never rewritten.
func (s *SQLiteStore) UpdateTask(ctx context.Context, t task.Task) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, completed = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, t.Description, string(t.Priority), boolToInt(t.Completed),
		dueString(t.DueDate), formatTime(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(res, t.ID)
}

// DeleteTask removes a task.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(res, id)
}

// ListTasks returns every task, oldest first.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// FindTaskIDsByPrefix returns IDs starting with prefix.
func (s *SQLiteStore) FindTaskIDsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tasks WHERE id LIKE ? ESCAPE '\' ORDER BY id`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("query task ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (task.Task, error) {
	var (
		t                    task.Task
		priority             string
		completed            int
		due                  sql.NullString
		createdAt, updatedAt string
	)
	if err := r.Scan(&t.ID, &t.Title, &t.Description, &priority, &completed, &due, &createdAt, &updatedAt); err != nil {
		return task.Task{}, err
	}
	t.Priority = task.Priority(priority)
	t.Completed = completed != 0
	if due.Valid && due.String != "" {
		if d, err := task.ParseDate(due.String); err == nil {
			t.DueDate = &d
		}
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func dueString(d *task.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
