package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Priority ranks how important a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IDPrefix is prepended to every generated task ID.
const IDPrefix = "task-"

// dateLayout is the wire format for due dates.
const dateLayout = "2006-01-02"

var (
	// ErrNotFound is returned by stores when a task ID does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrInvalid wraps every task validation failure.
	ErrInvalid = errors.New("invalid task")
	// ErrInvalidPriority is returned when a priority string cannot be parsed.
	ErrInvalidPriority = errors.New("invalid priority")
)

// ParsePriority normalizes user input into a Priority.
// Empty input defaults to medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: low, medium, high)", ErrInvalidPriority, s)
	}
}

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse due date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task is a single to-do item. CreatedAt is set once and never changes.
type Task struct {
	ID          string    `json:"id" yaml:"id" validate:"required"`
	Title       string    `json:"title" yaml:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" yaml:"description" validate:"max=4000"`
	Priority    Priority  `json:"priority" yaml:"priority" validate:"required,oneof=low medium high"`
	Completed   bool      `json:"completed" yaml:"completed"`
	DueDate     *Date     `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

var validate = validator.New()

// Validate checks the task's field constraints.
func (t *Task) Validate() error {
	t.Title = strings.TrimSpace(t.Title)
	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", strings.ToLower(e.Field()), e.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// IsOverdue reports whether an open task's due date is before now's day.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	today := DateOf(now).Time(now.Location())
	return t.DueDate.Time(now.Location()).Before(today)
}

// NewID returns a fresh task ID.
func NewID() string {
	return IDPrefix + uuid.New().String()[:8]
}

// NewTask builds a pending task stamped with now.
func NewTask(title, description string, priority Priority, due *Date, now time.Time) Task {
	if priority == "" {
		priority = PriorityMedium
	}
	return Task{
		ID:          NewID(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Priority:    priority,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Filter selects tasks in List calls. Nil fields match everything.
type Filter struct {
	Completed *bool
	Priority  Priority
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}
