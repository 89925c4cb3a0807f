// Package backup exports and imports tasks, focus sessions and settings as a
// single JSON or YAML document.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

// CurrentVersion is written to every export. Newer files are rejected.
const CurrentVersion = 1

// Format is the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat      = errors.New("unknown backup format")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Snapshot is everything a backup holds. Settings never carry the API key.
type Snapshot struct {
	Version    int              `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exportedAt" yaml:"exportedAt"`
	Tasks      []task.Task      `json:"tasks" yaml:"tasks"`
	Sessions   []focus.Session  `json:"sessions" yaml:"sessions"`
	Settings   *config.Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (use .json, .yaml or .yml)", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Collect reads the current state into a snapshot.
func Collect(ctx context.Context, tasks task.Store, sessions focus.Store, settings *config.Settings, now time.Time) (Snapshot, error) {
	ts, err := tasks.ListTasks(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list tasks: %w", err)
	}
	ss, err := sessions.ListSessions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list sessions: %w", err)
	}
	snap := Snapshot{
		Version:    CurrentVersion,
		ExportedAt: now.UTC(),
		Tasks:      ts,
		Sessions:   ss,
	}
	if settings != nil {
		s := *settings
		s.AI.APIKey = ""
		snap.Settings = &s
	}
	return snap, nil
}

// Export writes snap to path on fs, creating parent directories.
func Export(fs afero.Fs, path string, snap Snapshot) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if snap.Version == 0 {
		snap.Version = CurrentVersion
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("write backup %s: %w", path, err)
	}
	return nil
}

// Import reads and validates a backup from fs.
func Import(fs afero.Fs, path string) (Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Snapshot{}, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read backup %s: %w", path, err)
	}

	var snap Snapshot
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &snap)
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode backup %s: %w", path, err)
	}
	if snap.Version < 1 || snap.Version > CurrentVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}

	for i := range snap.Tasks {
		if err := snap.Tasks[i].Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("task %d (%s): %w", i, snap.Tasks[i].ID, err)
		}
	}
	for i, s := range snap.Sessions {
		if s.ID == "" {
			return Snapshot{}, fmt.Errorf("session %d: %w: missing id", i, focus.ErrInvalidSession)
		}
		if err := s.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("session %d (%s): %w", i, s.ID, err)
		}
	}
	if snap.Settings != nil {
		s := snap.Settings.Normalize()
		snap.Settings = &s
	}
	return snap, nil
}

// Result counts what Restore wrote.
type Result struct {
	TasksCreated  int `json:"tasksCreated"`
	TasksUpdated  int `json:"tasksUpdated"`
	SessionsSaved int `json:"sessionsSaved"`
}

// Restore merges snap into the stores by ID. Existing tasks are overwritten
// with the backup's version, sessions are upserted.
func Restore(ctx context.Context, snap Snapshot, tasks task.Store, sessions focus.Store) (Result, error) {
	var res Result
	for _, t := range snap.Tasks {
		_, err := tasks.GetTask(ctx, t.ID)
		switch {
		case errors.Is(err, task.ErrNotFound):
			if err := tasks.CreateTask(ctx, t); err != nil {
				return res, fmt.Errorf("restore task %s: %w", t.ID, err)
			}
			res.TasksCreated++
		case err != nil:
			return res, fmt.Errorf("look up task %s: %w", t.ID, err)
		default:
			if err := tasks.UpdateTask(ctx, t); err != nil {
				return res, fmt.Errorf("restore task %s: %w", t.ID, err)
			}
			res.TasksUpdated++
		}
	}
	for _, s := range snap.Sessions {
		if err := sessions.RecordSession(ctx, s); err != nil {
			return res, fmt.Errorf("restore session %s: %w", s.ID, err)
		}
		res.SessionsSaved++
	}
	return res, nil
}
