// Package app provides the application layer that orchestrates business logic.
// It sits between the CLI, MCP and HTTP handlers and the service layer so all
// three surfaces share one implementation of every operation.
package app

import (
	"context"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/assistant"
	"github.com/tempoflow-ai/tempoflow/internal/auth"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/memory"
	"github.com/tempoflow-ai/tempoflow/internal/productivity"
	"github.com/tempoflow-ai/tempoflow/internal/task"
	"github.com/tempoflow-ai/tempoflow/internal/telemetry"
)

// AssistantFactory builds a chat client for the current AI settings.
type AssistantFactory func(ctx context.Context, ai config.AISettings) (assistant.Client, error)

// Context holds shared dependencies for all app operations.
type Context struct {
	Store    *memory.SQLiteStore
	Tasks    *task.Service
	Sessions *focus.Recorder
	Auth     *auth.Router
	Tracker  telemetry.Client

	engine       *productivity.Engine
	newAssistant AssistantFactory
	now          func() time.Time
}

type options struct {
	tracker      telemetry.Client
	calendar     task.CalendarSyncer
	google       auth.Authenticator
	newAssistant AssistantFactory
	now          func() time.Time
	loc          *time.Location
}

// Option configures a Context.
type Option func(*options)

// WithTracker sends usage events to c.
func WithTracker(c telemetry.Client) Option {
	return func(o *options) { o.tracker = c }
}

// WithCalendar mirrors task changes through s.
func WithCalendar(s task.CalendarSyncer) Option {
	return func(o *options) { o.calendar = s }
}

// WithGoogle enables Google sign-in.
func WithGoogle(a auth.Authenticator) Option {
	return func(o *options) { o.google = a }
}

// WithAssistantFactory replaces assistant.NewClient.
func WithAssistantFactory(f AssistantFactory) Option {
	return func(o *options) { o.newAssistant = f }
}

// WithClock fixes the time used for new records and score windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the zone used to bucket sessions into days and hours.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// NewContext wires the services on top of store.
func NewContext(store *memory.SQLiteStore, opts ...Option) *Context {
	o := options{newAssistant: assistant.NewClient, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracker == nil {
		o.tracker = telemetry.NewNoopClient()
	}

	taskOpts := []task.Option{task.WithTracker(o.tracker), task.WithClock(o.now)}
	if o.calendar != nil {
		taskOpts = append(taskOpts, task.WithCalendar(o.calendar))
	}

	engineOpts := []productivity.Option{productivity.WithClock(o.now)}
	if o.loc != nil {
		engineOpts = append(engineOpts, productivity.WithLocation(o.loc))
	}

	providers := map[auth.Provider]auth.Authenticator{
		auth.ProviderPassword: auth.NewPasswordAuthenticator(store),
	}
	if o.google != nil {
		providers[auth.ProviderGoogle] = o.google
	}

	return &Context{
		Store:        store,
		Tasks:        task.NewService(store, taskOpts...),
		Sessions:     focus.NewRecorder(store, o.tracker.Track),
		Auth:         auth.NewRouter(store, providers),
		Tracker:      o.tracker,
		engine:       productivity.NewEngine(engineOpts...),
		newAssistant: o.newAssistant,
		now:          o.now,
	}
}

// Now is the context's clock.
func (c *Context) Now() time.Time { return c.now() }
