package backup

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/memory"
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

var exportedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *memory.SQLiteStore {
	t.Helper()
	store, err := memory.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seed(t *testing.T, store *memory.SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	due := task.Date{Year: 2025, Month: time.June, Day: 20}
	tasks := []task.Task{
		{ID: "task-a", Title: "Write report", Priority: task.PriorityHigh, DueDate: &due,
			CreatedAt: exportedAt.Add(-48 * time.Hour), UpdatedAt: exportedAt.Add(-48 * time.Hour)},
		{ID: "task-b", Title: "Inbox zero", Priority: task.PriorityLow, Completed: true,
			CreatedAt: exportedAt.Add(-24 * time.Hour), UpdatedAt: exportedAt.Add(-2 * time.Hour)},
	}
	for _, tk := range tasks {
		require.NoError(t, store.CreateTask(ctx, tk))
	}
	require.NoError(t, store.RecordSession(ctx, focus.Session{
		ID: "session-1", Duration: 25, Completed: true, Date: exportedAt.Add(-3 * time.Hour), TaskID: "task-a",
	}))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"backup.json", FormatJSON, false},
		{"dir/Backup.YAML", FormatYAML, false},
		{"b.yml", FormatYAML, false},
		{"b.csv", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnknownFormat, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got)
	}
}

func TestExportImport_RoundTripThroughStores(t *testing.T) {
	for _, path := range []string{"/backups/tempoflow.json", "/backups/tempoflow.yaml"} {
		t.Run(path, func(t *testing.T) {
			ctx := context.Background()
			src := newStore(t)
			seed(t, src)

			settings := config.Defaults()
			settings.AI.APIKey = "secret-key"
			settings.Timer.FocusMinutes = 50

			snap, err := Collect(ctx, src, src, &settings, exportedAt)
			require.NoError(t, err)
			assert.Empty(t, snap.Settings.AI.APIKey, "api key is never exported")
			assert.Equal(t, "secret-key", settings.AI.APIKey, "caller's settings untouched")

			fs := afero.NewMemMapFs()
			require.NoError(t, Export(fs, path, snap))

			loaded, err := Import(fs, path)
			require.NoError(t, err)
			assert.Equal(t, CurrentVersion, loaded.Version)
			assert.True(t, exportedAt.Equal(loaded.ExportedAt))
			require.NotNil(t, loaded.Settings)
			assert.Equal(t, 50, loaded.Settings.Timer.FocusMinutes)

			dst := newStore(t)
			res, err := Restore(ctx, loaded, dst, dst)
			require.NoError(t, err)
			assert.Equal(t, Result{TasksCreated: 2, SessionsSaved: 1}, res)

			tasks, err := dst.ListTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 2)
			assert.Equal(t, "task-a", tasks[0].ID)
			require.NotNil(t, tasks[0].DueDate)
			assert.Equal(t, "2025-06-20", tasks[0].DueDate.String())
			assert.True(t, tasks[1].Completed)
			assert.True(t, tasks[0].CreatedAt.Equal(exportedAt.Add(-48*time.Hour)))

			sessions, err := dst.ListSessions(ctx)
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			assert.Equal(t, "task-a", sessions[0].TaskID)
		})
	}
}

func TestRestore_UpdatesExistingTasks(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seed(t, store)

	snap, err := Collect(ctx, store, store, nil, exportedAt)
	require.NoError(t, err)
	assert.Nil(t, snap.Settings)
	snap.Tasks[0].Title = "Write final report"

	res, err := Restore(ctx, snap, store, store)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TasksUpdated)
	assert.Zero(t, res.TasksCreated)

	got, err := store.GetTask(ctx, "task-a")
	require.NoError(t, err)
	assert.Equal(t, "Write final report", got.Title)

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1, "sessions are upserted by id")
}

func TestImport_Rejections(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Import(fs, "/missing.json")
	assert.ErrorContains(t, err, "read backup")

	require.NoError(t, afero.WriteFile(fs, "/future.json", []byte(`{"version": 99, "tasks": [], "sessions": []}`), 0o600))
	_, err = Import(fs, "/future.json")
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	require.NoError(t, afero.WriteFile(fs, "/broken.json", []byte(`{"version": 1,`), 0o600))
	_, err = Import(fs, "/broken.json")
	assert.ErrorContains(t, err, "decode backup")

	require.NoError(t, afero.WriteFile(fs, "/badtask.yaml", []byte(`
version: 1
tasks:
  - id: task-x
    title: ""
    priority: medium
`), 0o600))
	_, err = Import(fs, "/badtask.yaml")
	assert.ErrorContains(t, err, "task 0 (task-x)")

	require.NoError(t, afero.WriteFile(fs, "/badsession.json", []byte(`{"version":1,"sessions":[{"id":"s1","duration":0,"date":"2025-06-15T10:00:00Z"}]}`), 0o600))
	_, err = Import(fs, "/badsession.json")
	assert.ErrorIs(t, err, focus.ErrInvalidSession)
}

func TestImport_NormalizesSettings(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.json", []byte(`{"version":1,"settings":{"timer":{"focusMinutes":500,"breakMinutes":0}}}`), 0o600))

	snap, err := Import(fs, "/s.json")
	require.NoError(t, err)
	require.NotNil(t, snap.Settings)
	assert.Equal(t, config.MaxFocusMinutes, snap.Settings.Timer.FocusMinutes)
	assert.Equal(t, config.MinBreakMinutes, snap.Settings.Timer.BreakMinutes)
}
