package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/assistant"
	"github.com/tempoflow-ai/tempoflow/internal/auth"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/memory"
	"github.com/tempoflow-ai/tempoflow/internal/productivity"
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type stubAssistant struct {
	reply string
	err   error
}

func (s stubAssistant) SendChatMessage(context.Context, []assistant.Message, string) (string, error) {
	return s.reply, s.err
}

type testServer struct {
	srv      *Server
	handler  http.Handler
	settings *memory.SettingsStore
}

func newTestServer(t *testing.T, client assistant.Client) *testServer {
	t.Helper()
	store, err := memory.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	appCtx := app.NewContext(store,
		app.WithClock(func() time.Time { return now }),
		app.WithLocation(time.UTC),
		app.WithAssistantFactory(func(context.Context, config.AISettings) (assistant.Client, error) {
			return client, nil
		}),
	)
	settingsStore := memory.NewSettingsStore(store)
	initial := config.Defaults()
	initial.AI.APIKey = "sk-test-1234567890"

	srv := New(appCtx, settingsStore, initial, Options{Port: 0, Version: "test"})
	return &testServer{srv: srv, handler: srv.Handler(), settings: settingsStore}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HealthResponse{Status: "ok", Version: "test"}, decode[HealthResponse](t, rec))
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/tasks", CreateTaskRequest{Title: "Write report", Priority: "high"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[task.Task](t, rec)
	assert.True(t, strings.HasPrefix(created.ID, task.IDPrefix))
	assert.Equal(t, task.PriorityHigh, created.Priority)
	assert.True(t, now.Equal(created.CreatedAt))

	rec = ts.do(t, http.MethodPost, "/api/tasks", `{"title":"Inbox zero","dueDate":"2025-06-20"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decode[task.Task](t, rec)
	assert.Equal(t, task.PriorityMedium, second.Priority)
	require.NotNil(t, second.DueDate)

	// Prefix lookup without the task- prefix.
	short := strings.TrimPrefix(created.ID, task.IDPrefix)[:6]
	rec = ts.do(t, http.MethodGet, "/api/tasks/"+short, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created.ID, decode[task.Task](t, rec).ID)

	rec = ts.do(t, http.MethodPatch, "/api/tasks/"+created.ID, `{"title":"Write final report","priority":"low"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edited := decode[task.Task](t, rec)
	assert.Equal(t, "Write final report", edited.Title)
	assert.Equal(t, task.PriorityLow, edited.Priority)
	assert.True(t, created.CreatedAt.Equal(edited.CreatedAt))

	rec = ts.do(t, http.MethodPost, "/api/tasks/"+created.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[task.Task](t, rec).Completed)

	rec = ts.do(t, http.MethodGet, "/api/tasks?completed=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[[]task.Task](t, rec)
	require.Len(t, done, 1)
	assert.Equal(t, created.ID, done[0].ID)

	rec = ts.do(t, http.MethodGet, "/api/tasks?priority=medium", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]task.Task](t, rec), 1)

	rec = ts.do(t, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode[errorBody](t, rec).Error)
}

func TestTaskValidationErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"empty title", http.MethodPost, "/api/tasks", `{"title":""}`, http.StatusBadRequest},
		{"bad priority", http.MethodPost, "/api/tasks", `{"title":"x","priority":"urgent"}`, http.StatusBadRequest},
		{"bad due date", http.MethodPost, "/api/tasks", `{"title":"x","dueDate":"tomorrow"}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/tasks", `{"title":`, http.StatusBadRequest},
		{"bad completed filter", http.MethodGet, "/api/tasks?completed=maybe", nil, http.StatusBadRequest},
		{"unknown task", http.MethodPost, "/api/tasks/task-nothere/toggle", nil, http.StatusNotFound},
		{"wrong method", http.MethodPut, "/api/tasks", `{}`, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestSessionsAndProductivity(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/tasks", CreateTaskRequest{Title: "Deep work"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/sessions", RecordSessionRequest{Duration: 25, Completed: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess := decode[focus.Session](t, rec)
	assert.NotEmpty(t, sess.ID)
	assert.True(t, now.Equal(sess.Date))

	rec = ts.do(t, http.MethodPost, "/api/sessions", RecordSessionRequest{
		Duration: 10, Date: now.Add(-26 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/sessions", RecordSessionRequest{Duration: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/sessions", RecordSessionRequest{Duration: 5, Date: "yesterday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]focus.Session](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/api/productivity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[productivity.Metrics](t, rec)
	assert.Equal(t, config.DefaultTimeframeDays, m.TimeframeDays)
	assert.Equal(t, 0, m.TaskCompletionRate)
	assert.Equal(t, 50, m.FocusSessionEfficiency)
	assert.Equal(t, 2, m.ActiveDays)
	assert.Equal(t, 29, m.ConsistencyScore)

	rec = ts.do(t, http.MethodGet, "/api/productivity?days=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, decode[productivity.Metrics](t, rec).TimeframeDays)

	for _, bad := range []string{"0", "-3", "abc", "366"} {
		rec = ts.do(t, http.MethodGet, "/api/productivity?days="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestChat(t *testing.T) {
	ts := newTestServer(t, stubAssistant{reply: "Block two focus sessions before lunch."})
	rec := ts.do(t, http.MethodPost, "/api/chat", app.ChatRequest{
		History: []assistant.Message{{Role: assistant.RoleModel, Content: assistant.Greeting}},
		Prompt:  "How should I plan today?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[app.ChatResult](t, rec)
	assert.Equal(t, "Block two focus sessions before lunch.", res.Reply)
	assert.False(t, res.Degraded)

	rec = ts.do(t, http.MethodPost, "/api/chat", app.ChatRequest{Prompt: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_DegradesTo200(t *testing.T) {
	ts := newTestServer(t, stubAssistant{err: errors.New("upstream 503")})
	rec := ts.do(t, http.MethodPost, "/api/chat", app.ChatRequest{Prompt: "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[app.ChatResult](t, rec)
	assert.True(t, res.Degraded)
	assert.Equal(t, assistant.ErrorReply, res.Reply)
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[config.Settings](t, rec)
	assert.Equal(t, "sk-t...7890", got.AI.APIKey)

	// Round-tripping the masked key keeps the real one.
	got.Timer.FocusMinutes = 90
	got.Theme.DarkMode = true
	rec = ts.do(t, http.MethodPut, "/api/settings", got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, config.MaxFocusMinutes, decode[config.Settings](t, rec).Timer.FocusMinutes)

	live := ts.srv.Settings()
	assert.True(t, live.Theme.DarkMode)
	assert.Equal(t, "sk-test-1234567890", live.AI.APIKey)

	saved, err := ts.settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-test-1234567890", saved.AI.APIKey)
	assert.Equal(t, config.MaxFocusMinutes, saved.Timer.FocusMinutes)

	// Partial bodies merge over current settings.
	rec = ts.do(t, http.MethodPut, "/api/settings", `{"ai":{"apiKey":"new-key-abcdefgh"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "new-key-abcdefgh", ts.srv.Settings().AI.APIKey)
	assert.Equal(t, config.MaxFocusMinutes, ts.srv.Settings().Timer.FocusMinutes)

	rec = ts.do(t, http.MethodPut, "/api/settings", `{"ai":{"provider":"skynet"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, config.ProviderGemini, ts.srv.Settings().AI.Provider)
}

func TestApplySettings_UsedByLaterRequests(t *testing.T) {
	ts := newTestServer(t, nil)
	next := config.Defaults()
	next.Score.TimeframeDays = 30
	ts.srv.ApplySettings(next)

	rec := ts.do(t, http.MethodGet, "/api/productivity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, decode[productivity.Metrics](t, rec).TimeframeDays)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	creds := auth.Credentials{Email: "Ada@Example.com", Password: "secret1"}

	rec := ts.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/signup", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[auth.UserIdentity](t, rec)
	assert.Equal(t, "ada@example.com", id.Email)

	rec = ts.do(t, http.MethodPost, "/api/auth/signup", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/signup", auth.Credentials{Email: "nope", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/signout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/signin", auth.Credentials{Email: creds.Email, Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/signin", auth.Credentials{Provider: auth.ProviderGoogle, AuthCode: "c"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "google is not configured")

	rec = ts.do(t, http.MethodPost, "/api/auth/signin", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.UID, decode[auth.Session](t, rec).Identity.UID)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
