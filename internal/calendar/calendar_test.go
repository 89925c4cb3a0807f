package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/tempoflow-ai/tempoflow/internal/task"
)

// fakeCalendar serves the subset of the Calendar v3 events API the syncer uses.
type fakeCalendar struct {
	mu      sync.Mutex
	events  map[string]*gcal.Event
	nextID  int
	inserts int
	patches int
	deletes int
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const base = "/calendars/primary/events"
	path := r.URL.Path
	if !strings.HasPrefix(path, base) {
		http.NotFound(w, r)
		return
	}
	eventID := strings.TrimPrefix(strings.TrimPrefix(path, base), "/")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && eventID == "":
		want := strings.TrimPrefix(r.URL.Query().Get("privateExtendedProperty"), PropTaskID+"=")
		items := []*gcal.Event{}
		for _, ev := range f.events {
			if ev.ExtendedProperties != nil && ev.ExtendedProperties.Private[PropTaskID] == want {
				items = append(items, ev)
			}
		}
		_ = json.NewEncoder(w).Encode(gcal.Events{Items: items})
	case r.Method == http.MethodPost && eventID == "":
		var ev gcal.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		f.nextID++
		ev.Id = fmt.Sprintf("ev%d", f.nextID)
		f.events[ev.Id] = &ev
		f.inserts++
		_ = json.NewEncoder(w).Encode(&ev)
	case r.Method == http.MethodPatch:
		ev, ok := f.events[eventID]
		if !ok {
			http.NotFound(w, r)
			return
		}
		var patch gcal.Event
		_ = json.NewDecoder(r.Body).Decode(&patch)
		patch.Id = ev.Id
		f.events[eventID] = &patch
		f.patches++
		_ = json.NewEncoder(w).Encode(&patch)
	case r.Method == http.MethodDelete:
		delete(f.events, eventID)
		f.deletes++
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func newTestSyncer(t *testing.T) (*Syncer, *fakeCalendar) {
	t.Helper()
	fake := &fakeCalendar{events: map[string]*gcal.Event{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := NewService(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return NewSyncer(svc, ""), fake
}

func dueTask(id string) task.Task {
	due := task.Date{Year: 2025, Month: time.March, Day: 14}
	return task.Task{
		ID:          id,
		Title:       "Ship report",
		Description: "Quarterly numbers",
		Priority:    task.PriorityHigh,
		DueDate:     &due,
	}
}

func TestEventFromTask(t *testing.T) {
	ev, err := EventFromTask(dueTask("task-1"))
	require.NoError(t, err)
	assert.Equal(t, "Ship report", ev.Summary)
	assert.Equal(t, "2025-03-14", ev.Start.Date)
	assert.Equal(t, "2025-03-15", ev.End.Date)
	assert.Equal(t, "opaque", ev.Transparency)
	assert.Equal(t, "task-1", ev.ExtendedProperties.Private[PropTaskID])
	assert.Contains(t, ev.Description, "Quarterly numbers")
	assert.Contains(t, ev.Description, "Priority: high")

	done := dueTask("task-2")
	done.Completed = true
	ev, err = EventFromTask(done)
	require.NoError(t, err)
	assert.Equal(t, "transparent", ev.Transparency)
	assert.True(t, strings.HasPrefix(ev.Summary, "✓ "))

	_, err = EventFromTask(task.Task{ID: "task-3"})
	assert.ErrorIs(t, err, ErrNoDueDate)
}

func TestEventFromTask_MonthRollover(t *testing.T) {
	tk := dueTask("task-1")
	tk.DueDate = &task.Date{Year: 2024, Month: time.December, Day: 31}
	ev, err := EventFromTask(tk)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", ev.End.Date)
}

func TestSyncer_InsertThenPatch(t *testing.T) {
	s, fake := newTestSyncer(t)
	ctx := context.Background()
	tk := dueTask("task-1")

	require.NoError(t, s.Sync(ctx, tk))
	assert.Equal(t, 1, fake.inserts)

	// Unchanged task: no write.
	require.NoError(t, s.Sync(ctx, tk))
	assert.Equal(t, 1, fake.inserts)
	assert.Equal(t, 0, fake.patches)

	tk.Completed = true
	require.NoError(t, s.Sync(ctx, tk))
	assert.Equal(t, 1, fake.patches)

	ev, err := s.FindEvent(ctx, "task-1")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "transparent", ev.Transparency)
}

func TestSyncer_SkipsTasksWithoutDueDate(t *testing.T) {
	s, fake := newTestSyncer(t)
	require.NoError(t, s.Sync(context.Background(), task.Task{ID: "task-x", Title: "Someday"}))
	assert.Zero(t, fake.inserts)
}

func TestSyncer_Remove(t *testing.T) {
	s, fake := newTestSyncer(t)
	ctx := context.Background()
	require.NoError(t, s.Sync(ctx, dueTask("task-1")))

	require.NoError(t, s.Remove(ctx, "task-1"))
	assert.Equal(t, 1, fake.deletes)

	ev, err := s.FindEvent(ctx, "task-1")
	require.NoError(t, err)
	assert.Nil(t, ev)

	// Removing an unmirrored task is a no-op.
	require.NoError(t, s.Remove(ctx, "task-404"))
	assert.Equal(t, 1, fake.deletes)
}

func TestSyncer_APIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	svc, err := NewService(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	err = NewSyncer(svc, "primary").Sync(context.Background(), dueTask("task-1"))
	assert.ErrorContains(t, err, "search calendar events")
}
