// Package focus models Pomodoro focus sessions and the countdown that
// produces them.
package focus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSession is returned when a session fails validation.
var ErrInvalidSession = errors.New("invalid focus session")

// Session is one timed interval of dedicated work. Duration is in minutes.
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	Duration  int       `json:"duration" yaml:"duration"`
	Completed bool      `json:"completed" yaml:"completed"`
	Date      time.Time `json:"date" yaml:"date"`
	TaskID    string    `json:"taskId,omitempty" yaml:"taskId,omitempty"`
}

// NewSession builds a session that occurred at date.
func NewSession(duration int, completed bool, date time.Time) Session {
	return Session{
		ID:        "session-" + uuid.New().String()[:8],
		Duration:  duration,
		Completed: completed,
		Date:      date,
	}
}

// Validate rejects non-positive durations and missing timestamps.
func (s Session) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidSession, s.Duration)
	}
	if s.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidSession)
	}
	return nil
}

// Store is the focus-session repository.
type Store interface {
	RecordSession(ctx context.Context, s Session) error
	ListSessions(ctx context.Context) ([]Session, error)
}

// Recorder validates and persists sessions, emitting a usage event for
// completed ones.
type Recorder struct {
	store   Store
	onTrack func(event string, props map[string]any)
}

// NewRecorder wraps store. track may be nil.
func NewRecorder(store Store, track func(event string, props map[string]any)) *Recorder {
	return &Recorder{store: store, onTrack: track}
}

// Record validates s, assigns an ID if missing, and stores it.
func (r *Recorder) Record(ctx context.Context, s Session) (Session, error) {
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	if s.ID == "" {
		s.ID = NewSession(s.Duration, s.Completed, s.Date).ID
	}
	if err := r.store.RecordSession(ctx, s); err != nil {
		return Session{}, fmt.Errorf("record session: %w", err)
	}
	if r.onTrack != nil {
		event := "focus_abandoned"
		if s.Completed {
			event = "focus_completed"
		}
		r.onTrack(event, map[string]any{"duration": s.Duration})
	}
	return s, nil
}

// List returns every recorded session.
func (r *Recorder) List(ctx context.Context) ([]Session, error) {
	return r.store.ListSessions(ctx)
}
