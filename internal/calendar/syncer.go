package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/tempoflow-ai/tempoflow/internal/task"
)

// DefaultCalendarID is the signed-in user's main calendar.
const DefaultCalendarID = "primary"

// Scopes needed for mirroring.
var Scopes = []string{gcal.CalendarEventsScope}

// Syncer creates or patches one event per task.
type Syncer struct {
	srv        *gcal.Service
	calendarID string
}

// NewService builds a Calendar API client on an authorized HTTP client.
// Extra options are appended, e.g. option.WithEndpoint in tests.
func NewService(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*gcal.Service, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return srv, nil
}

// NewSyncer returns a syncer writing to calendarID, "primary" when empty.
func NewSyncer(srv *gcal.Service, calendarID string) *Syncer {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &Syncer{srv: srv, calendarID: calendarID}
}

// Sync mirrors t. Tasks without a due date are skipped. It satisfies
// task.CalendarSyncer.
func (s *Syncer) Sync(ctx context.Context, t task.Task) error {
	want, err := EventFromTask(t)
	if err != nil {
		return nil
	}

	existing, err := s.FindEvent(ctx, t.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		created, err := s.srv.Events.Insert(s.calendarID, want).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("insert calendar event: %w", err)
		}
		slog.Debug("calendar event created", "task_id", t.ID, "event_id", created.Id)
		return nil
	}
	if !needsUpdate(existing, want) {
		return nil
	}
	if _, err := s.srv.Events.Patch(s.calendarID, existing.Id, want).Context(ctx).Do(); err != nil {
		return fmt.Errorf("patch calendar event %s: %w", existing.Id, err)
	}
	slog.Debug("calendar event updated", "task_id", t.ID, "event_id", existing.Id)
	return nil
}

// FindEvent returns the event tagged with taskID, or nil.
func (s *Syncer) FindEvent(ctx context.Context, taskID string) (*gcal.Event, error) {
	events, err := s.srv.Events.List(s.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", PropTaskID, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search calendar events: %w", err)
	}
	if len(events.Items) == 0 {
		return nil, nil
	}
	return events.Items[0], nil
}

// Remove deletes the event mirrored for taskID, if any.
func (s *Syncer) Remove(ctx context.Context, taskID string) error {
	ev, err := s.FindEvent(ctx, taskID)
	if err != nil || ev == nil {
		return err
	}
	if err := s.srv.Events.Delete(s.calendarID, ev.Id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete calendar event %s: %w", ev.Id, err)
	}
	return nil
}
