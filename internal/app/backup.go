package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/tempoflow-ai/tempoflow/internal/backup"
	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// Export writes tasks, sessions and settings (without the API key) to path.
func (c *Context) Export(ctx context.Context, fs afero.Fs, path string, settings *config.Settings) (backup.Snapshot, error) {
	snap, err := backup.Collect(ctx, c.Store, c.Store, settings, c.now())
	if err != nil {
		return backup.Snapshot{}, err
	}
	if err := backup.Export(fs, path, snap); err != nil {
		return backup.Snapshot{}, err
	}
	return snap, nil
}

// ImportOptions controls what Import applies besides tasks and sessions.
type ImportOptions struct {
	// Settings receives the backup's settings. The current API key is kept.
	Settings config.Store
}

// Import merges the backup at path into the store.
func (c *Context) Import(ctx context.Context, fs afero.Fs, path string, opts ImportOptions) (backup.Result, error) {
	snap, err := backup.Import(fs, path)
	if err != nil {
		return backup.Result{}, err
	}
	res, err := backup.Restore(ctx, snap, c.Store, c.Store)
	if err != nil {
		return res, err
	}
	if opts.Settings == nil || snap.Settings == nil {
		return res, nil
	}

	current, err := opts.Settings.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load settings: %w", err)
	}
	next := *snap.Settings
	next.AI.APIKey = current.AI.APIKey
	if err := opts.Settings.Save(ctx, next); err != nil {
		return res, fmt.Errorf("save settings: %w", err)
	}
	return res, nil
}
