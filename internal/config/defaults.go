// Package config provides the validated, immutable application settings for
// TempoFlow and the collaborators that load and persist them.
// All default values and bounds are defined here.
package config

// AI provider constants
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderOffline   = "offline"

	// DefaultProvider is used when no provider is configured.
	DefaultProvider = ProviderGemini
)

// Default model constants for each provider
const (
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultOllamaModel    = "llama3.2"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"

	// DefaultOllamaURL is the default URL for a local Ollama server.
	DefaultOllamaURL = "http://localhost:11434"
)

// Timer bounds and defaults, in minutes.
const (
	DefaultFocusMinutes = 25
	MinFocusMinutes     = 1
	MaxFocusMinutes     = 60

	DefaultBreakMinutes = 5
	MinBreakMinutes     = 1
	MaxBreakMinutes     = 30
)

// Generation defaults for the assistant.
const (
	DefaultTemperature     = 0.7
	DefaultTopK            = 40
	DefaultTopP            = 0.95
	DefaultMaxOutputTokens = 1000
	MaxOutputTokensLimit   = 8192
)

// Scoring and server defaults.
const (
	DefaultTimeframeDays = 7
	MaxTimeframeDays     = 365
	DefaultServerPort    = 7777
)

// DefaultModelForProvider returns the default model for a given provider string.
func DefaultModelForProvider(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderOllama:
		return DefaultOllamaModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	default:
		return ""
	}
}

// Defaults returns the settings used when nothing has been configured.
func Defaults() Settings {
	return Settings{
		Theme: ThemeSettings{
			DarkMode:            false,
			ShowAIInsights:      true,
			EnableNotifications: true,
		},
		Timer: TimerSettings{
			FocusMinutes:    DefaultFocusMinutes,
			BreakMinutes:    DefaultBreakMinutes,
			AutoStartBreaks: true,
			AutoStartFocus:  false,
		},
		AI: AISettings{
			Provider:        DefaultProvider,
			Model:           DefaultGeminiModel,
			Temperature:     DefaultTemperature,
			TopK:            DefaultTopK,
			TopP:            DefaultTopP,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
		Score: ScoreSettings{
			TimeframeDays: DefaultTimeframeDays,
		},
		Server: ServerSettings{
			Port: DefaultServerPort,
		},
	}
}
