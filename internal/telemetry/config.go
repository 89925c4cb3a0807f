// Package telemetry sends anonymous, opt-in usage events to PostHog.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// ConfigFileName lives next to config.yaml.
const ConfigFileName = "telemetry.json"

// EnvDisable turns telemetry off regardless of consent.
const EnvDisable = "TEMPOFLOW_TELEMETRY_DISABLED"

// Config is the consent state. It is kept out of config.yaml so exports and
// the settings API never touch it.
type Config struct {
	Enabled      bool   `json:"enabled"`
	ConsentAsked bool   `json:"consent_asked"`
	AnonymousID  string `json:"anonymous_id"`
}

var (
	configDirOverride   string
	configDirOverrideMu sync.RWMutex
)

// SetConfigDir points the consent file at dir. Empty restores the default.
func SetConfigDir(dir string) {
	configDirOverrideMu.Lock()
	defer configDirOverrideMu.Unlock()
	configDirOverride = dir
}

func configDir() (string, error) {
	configDirOverrideMu.RLock()
	override := configDirOverride
	configDirOverrideMu.RUnlock()
	if override != "" {
		return override, nil
	}
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the consent file location.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the consent file. A missing file yields a disabled config with a
// fresh anonymous ID.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read telemetry config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry config: %w", err)
		}
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
	}
	return cfg, nil
}

// Save writes the consent file with owner-only permissions.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}

// Enable records consent.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable records refusal.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// NeedsConsent is true until the user has answered once.
func (c *Config) NeedsConsent() bool { return !c.ConsentAsked }

// IsEnabled reports consent, overridden by TEMPOFLOW_TELEMETRY_DISABLED.
func (c *Config) IsEnabled() bool {
	if os.Getenv(EnvDisable) != "" {
		return false
	}
	return c.Enabled
}
