package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/util"
)

// Store persists tasks.
type Store interface {
	CreateTask(ctx context.Context, t Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, t Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]Task, error)
	FindTaskIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Tracker receives usage events. telemetry.Client satisfies it.
type Tracker interface {
	Track(event string, properties map[string]any)
}

// CalendarSyncer mirrors tasks with due dates into an external calendar.
type CalendarSyncer interface {
	Sync(ctx context.Context, t Task) error
}

// CalendarRemover is implemented by syncers that can drop a mirrored event.
type CalendarRemover interface {
	Remove(ctx context.Context, taskID string) error
}

// Edit carries optional field changes. Nil fields are left alone.
type Edit struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *Date
	ClearDue    bool
}

// Service applies task lifecycle rules on top of a Store.
type Service struct {
	store    Store
	tracker  Tracker
	calendar CalendarSyncer
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTracker attaches a usage tracker.
func WithTracker(t Tracker) Option {
	return func(s *Service) { s.tracker = t }
}

// WithCalendar enables calendar mirroring for tasks with due dates.
func WithCalendar(c CalendarSyncer) Option {
	return func(s *Service) { s.calendar = c }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a task service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates and stores a new task.
func (s *Service) Add(ctx context.Context, title, description string, priority Priority, due *Date) (Task, error) {
	t := NewTask(title, description, priority, due, s.now())
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	s.track("task_added", map[string]any{"priority": string(t.Priority), "has_due_date": t.DueDate != nil})
	s.syncCalendar(ctx, t)
	return t, nil
}

// Resolve expands a task ID or unique prefix ("3f2a", "task-3f") to a full ID.
func (s *Service) Resolve(ctx context.Context, idOrPrefix string) (string, error) {
	id, err := util.ResolveTaskID(ctx, s.store, idOrPrefix)
	if errors.Is(err, util.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return id, err
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	return s.store.GetTask(ctx, id)
}

// Toggle flips the completed flag.
func (s *Service) Toggle(ctx context.Context, id string) (Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now()
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	s.track("task_toggled", map[string]any{"completed": t.Completed, "priority": string(t.Priority)})
	s.syncCalendar(ctx, t)
	return t, nil
}

// SetCompleted marks a task done or open. It is idempotent.
func (s *Service) SetCompleted(ctx context.Context, id string, completed bool) (Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t.Completed == completed {
		return t, nil
	}
	return s.Toggle(ctx, id)
}

// Edit changes the mutable fields of a task. CreatedAt is preserved.
func (s *Service) Edit(ctx context.Context, id string, e Edit) (Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if e.Title != nil {
		t.Title = *e.Title
	}
	if e.Description != nil {
		t.Description = strings.TrimSpace(*e.Description)
	}
	if e.Priority != nil {
		t.Priority = *e.Priority
	}
	if e.ClearDue {
		t.DueDate = nil
	} else if e.DueDate != nil {
		due := *e.DueDate
		t.DueDate = &due
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	t.UpdatedAt = s.now()
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	s.syncCalendar(ctx, t)
	return t, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	s.track("task_deleted", nil)
	if r, ok := s.calendar.(CalendarRemover); ok {
		if err := r.Remove(ctx, id); err != nil {
			slog.Warn("calendar remove failed", "task_id", id, "error", err)
		}
	}
	return nil
}

// List returns tasks matching f, ordered by creation time.
func (s *Service) List(ctx context.Context, f Filter) ([]Task, error) {
	all, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Pending returns open tasks, high priority first.
func (s *Service) Pending(ctx context.Context) ([]Task, error) {
	open := false
	tasks, err := s.List(ctx, Filter{Completed: &open})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return priorityRank(tasks[i].Priority) > priorityRank(tasks[j].Priority)
	})
	return tasks, nil
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

func (s *Service) track(event string, props map[string]any) {
	if s.tracker != nil {
		s.tracker.Track(event, props)
	}
}

// syncCalendar is best effort; a calendar outage must not fail task edits.
func (s *Service) syncCalendar(ctx context.Context, t Task) {
	if s.calendar == nil || t.DueDate == nil {
		return
	}
	if err := s.calendar.Sync(ctx, t); err != nil {
		slog.Warn("calendar sync failed", "task_id", t.ID, "error", err)
	}
}
