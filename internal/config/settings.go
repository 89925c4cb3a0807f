package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Settings is the complete user-editable configuration. It is a value type:
// components receive a copy at construction and never observe later edits.
type Settings struct {
	Theme  ThemeSettings  `mapstructure:"theme" json:"theme" yaml:"theme"`
	Timer  TimerSettings  `mapstructure:"timer" json:"timer" yaml:"timer"`
	AI     AISettings     `mapstructure:"ai" json:"ai" yaml:"ai"`
	Score  ScoreSettings  `mapstructure:"score" json:"score" yaml:"score"`
	Server ServerSettings `mapstructure:"server" json:"server" yaml:"server"`
}

// ThemeSettings holds dashboard presentation preferences.
type ThemeSettings struct {
	DarkMode            bool `mapstructure:"darkMode" json:"darkMode" yaml:"darkMode"`
	ShowAIInsights      bool `mapstructure:"showAIInsights" json:"showAIInsights" yaml:"showAIInsights"`
	EnableNotifications bool `mapstructure:"enableNotifications" json:"enableNotifications" yaml:"enableNotifications"`
}

// TimerSettings configures the Pomodoro timer.
type TimerSettings struct {
	FocusMinutes    int  `mapstructure:"focusMinutes" json:"focusMinutes" yaml:"focusMinutes" validate:"min=1,max=60"`
	BreakMinutes    int  `mapstructure:"breakMinutes" json:"breakMinutes" yaml:"breakMinutes" validate:"min=1,max=30"`
	AutoStartBreaks bool `mapstructure:"autoStartBreaks" json:"autoStartBreaks" yaml:"autoStartBreaks"`
	AutoStartFocus  bool `mapstructure:"autoStartFocus" json:"autoStartFocus" yaml:"autoStartFocus"`
}

// AISettings configures the chat assistant.
type AISettings struct {
	Provider           string  `mapstructure:"provider" json:"provider" yaml:"provider" validate:"oneof=gemini openai ollama anthropic offline"`
	Model              string  `mapstructure:"model" json:"model" yaml:"model"`
	APIKey             string  `mapstructure:"apiKey" json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	BaseURL            string  `mapstructure:"baseURL" json:"baseURL,omitempty" yaml:"baseURL,omitempty" validate:"omitempty,url"`
	Temperature        float64 `mapstructure:"temperature" json:"temperature" yaml:"temperature" validate:"min=0,max=2"`
	TopK               int     `mapstructure:"topK" json:"topK" yaml:"topK" validate:"min=1,max=100"`
	TopP               float64 `mapstructure:"topP" json:"topP" yaml:"topP" validate:"min=0,max=1"`
	MaxOutputTokens    int     `mapstructure:"maxOutputTokens" json:"maxOutputTokens" yaml:"maxOutputTokens" validate:"min=1,max=8192"`
	EnableCalendarSync bool    `mapstructure:"enableCalendarSync" json:"enableCalendarSync" yaml:"enableCalendarSync"`
}

// ScoreSettings configures the productivity dashboard.
type ScoreSettings struct {
	TimeframeDays int `mapstructure:"timeframeDays" json:"timeframeDays" yaml:"timeframeDays" validate:"min=1,max=365"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Port int `mapstructure:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
}

// HasAPIKey reports whether a key is configured for a provider that needs one.
func (a AISettings) HasAPIKey() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// Redacted returns a copy safe to print or serve.
func (s Settings) Redacted() Settings {
	if s.AI.APIKey != "" {
		s.AI.APIKey = maskKey(s.AI.APIKey)
	}
	return s
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// Normalize clamps every numeric field into range and fills empty strings
// with defaults. It returns a new value.
func (s Settings) Normalize() Settings {
	s.Timer.FocusMinutes = clamp(s.Timer.FocusMinutes, MinFocusMinutes, MaxFocusMinutes)
	s.Timer.BreakMinutes = clamp(s.Timer.BreakMinutes, MinBreakMinutes, MaxBreakMinutes)

	s.AI.Provider = strings.ToLower(strings.TrimSpace(s.AI.Provider))
	if s.AI.Provider == "" {
		s.AI.Provider = DefaultProvider
	}
	s.AI.Model = strings.TrimSpace(s.AI.Model)
	if s.AI.Model == "" {
		s.AI.Model = DefaultModelForProvider(s.AI.Provider)
	}
	s.AI.APIKey = strings.TrimSpace(s.AI.APIKey)
	s.AI.BaseURL = strings.TrimSpace(s.AI.BaseURL)
	if s.AI.BaseURL == "" && s.AI.Provider == ProviderOllama {
		s.AI.BaseURL = DefaultOllamaURL
	}
	s.AI.Temperature = clampFloat(s.AI.Temperature, 0, 2)
	s.AI.TopK = clamp(s.AI.TopK, 1, 100)
	s.AI.TopP = clampFloat(s.AI.TopP, 0, 1)
	s.AI.MaxOutputTokens = clamp(s.AI.MaxOutputTokens, 1, MaxOutputTokensLimit)

	s.Score.TimeframeDays = clamp(s.Score.TimeframeDays, 1, MaxTimeframeDays)
	s.Server.Port = clamp(s.Server.Port, 1, 65535)
	return s
}

var validate = validator.New()

// Validate checks struct tags. Call Normalize first to clamp numeric input.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: rule '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
