package memory

import (
	"context"
	"fmt"

	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// SettingsKey is the kv entry holding the settings blob.
const SettingsKey = "settings"

// SettingsStore keeps config.Settings in the kv table, the way the web
// dashboard kept them in browser storage. It implements config.Store.
type SettingsStore struct {
	store *SQLiteStore
}

// NewSettingsStore wraps store.
func NewSettingsStore(store *SQLiteStore) *SettingsStore {
	return &SettingsStore{store: store}
}

// Load returns the saved settings, or the defaults when nothing is saved.
// Saved values are clamped on the way out.
func (s *SettingsStore) Load(ctx context.Context) (config.Settings, error) {
	settings := config.Defaults()
	found, err := s.store.Get(ctx, SettingsKey, &settings)
	if err != nil {
		return config.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return config.Defaults(), nil
	}
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

// Save clamps, validates and stores settings.
func (s *SettingsStore) Save(ctx context.Context, settings config.Settings) error {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.store.Set(ctx, SettingsKey, settings)
}
