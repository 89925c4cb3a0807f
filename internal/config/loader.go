package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. TEMPOFLOW_TIMER_FOCUSMINUTES.
const EnvPrefix = "TEMPOFLOW"

// Store loads and saves settings. It is the only component allowed to touch
// persisted configuration.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// SetDefaults registers every default on v so partially written config
// files still unmarshal into complete settings.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("theme.darkMode", d.Theme.DarkMode)
	v.SetDefault("theme.showAIInsights", d.Theme.ShowAIInsights)
	v.SetDefault("theme.enableNotifications", d.Theme.EnableNotifications)

	v.SetDefault("timer.focusMinutes", d.Timer.FocusMinutes)
	v.SetDefault("timer.breakMinutes", d.Timer.BreakMinutes)
	v.SetDefault("timer.autoStartBreaks", d.Timer.AutoStartBreaks)
	v.SetDefault("timer.autoStartFocus", d.Timer.AutoStartFocus)

	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseURL", "")
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.topK", d.AI.TopK)
	v.SetDefault("ai.topP", d.AI.TopP)
	v.SetDefault("ai.maxOutputTokens", d.AI.MaxOutputTokens)
	v.SetDefault("ai.enableCalendarSync", d.AI.EnableCalendarSync)

	v.SetDefault("score.timeframeDays", d.Score.TimeframeDays)
	v.SetDefault("server.port", d.Server.Port)
}

// Load unmarshals v into Settings, resolves the API key from provider
// environment variables when the config leaves it empty, then normalizes and
// validates the result.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if strings.TrimSpace(s.AI.APIKey) == "" {
		s.AI.APIKey = providerEnvKey(strings.ToLower(strings.TrimSpace(s.AI.Provider)))
	}

	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func providerEnvKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case ProviderGemini, "":
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}

// ViperStore persists settings to the YAML file backing a viper instance.
type ViperStore struct {
	v    *viper.Viper
	path string
}

// NewViperStore wraps v. When v has no config file, path is used for writes.
func NewViperStore(v *viper.Viper, path string) *ViperStore {
	return &ViperStore{v: v, path: path}
}

// Load implements Store.
func (s *ViperStore) Load(_ context.Context) (Settings, error) {
	return Load(s.v)
}

// Save implements Store. Values are normalized and validated before writing.
func (s *ViperStore) Save(_ context.Context, settings Settings) error {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}

	s.v.Set("theme.darkMode", settings.Theme.DarkMode)
	s.v.Set("theme.showAIInsights", settings.Theme.ShowAIInsights)
	s.v.Set("theme.enableNotifications", settings.Theme.EnableNotifications)
	s.v.Set("timer.focusMinutes", settings.Timer.FocusMinutes)
	s.v.Set("timer.breakMinutes", settings.Timer.BreakMinutes)
	s.v.Set("timer.autoStartBreaks", settings.Timer.AutoStartBreaks)
	s.v.Set("timer.autoStartFocus", settings.Timer.AutoStartFocus)
	s.v.Set("ai.provider", settings.AI.Provider)
	s.v.Set("ai.model", settings.AI.Model)
	s.v.Set("ai.apiKey", settings.AI.APIKey)
	s.v.Set("ai.baseURL", settings.AI.BaseURL)
	s.v.Set("ai.temperature", settings.AI.Temperature)
	s.v.Set("ai.topK", settings.AI.TopK)
	s.v.Set("ai.topP", settings.AI.TopP)
	s.v.Set("ai.maxOutputTokens", settings.AI.MaxOutputTokens)
	s.v.Set("ai.enableCalendarSync", settings.AI.EnableCalendarSync)
	s.v.Set("score.timeframeDays", settings.Score.TimeframeDays)
	s.v.Set("server.port", settings.Server.Port)

	path := s.v.ConfigFileUsed()
	if path == "" {
		path = s.path
	}
	if path == "" {
		return fmt.Errorf("no config file path to save settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := s.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}

// Watch reloads settings whenever the config file changes and hands the new
// value to apply. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, apply func(Settings)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		s, err := Load(v)
		if err != nil {
			slog.Warn("ignoring invalid config change", "file", e.Name, "error", err)
			return
		}
		slog.Info("settings reloaded", "file", e.Name)
		apply(s)
	})
	v.WatchConfig()
}

// GoogleClient is the OAuth client used for Google sign-in and calendar
// access. It lives outside Settings so it is never served or exported.
type GoogleClient struct {
	ClientID     string
	ClientSecret string
}

// Configured reports whether both halves of the client are present.
func (g GoogleClient) Configured() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// LoadGoogleClient reads google.clientID and google.clientSecret, which may
// come from the config file or TEMPOFLOW_GOOGLE_CLIENTID and
// TEMPOFLOW_GOOGLE_CLIENTSECRET.
func LoadGoogleClient(v *viper.Viper) GoogleClient {
	return GoogleClient{
		ClientID:     strings.TrimSpace(v.GetString("google.clientID")),
		ClientSecret: strings.TrimSpace(v.GetString("google.clientSecret")),
	}
}
