// Package assistant is the chat assistant: a provider-neutral Client, the
// provider implementations, and the Conversation that keeps chat history.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Fixed assistant texts.
const (
	Greeting   = "Hi there! I'm your AI assistant. How can I help you today?"
	ErrorReply = "Sorry, I encountered an error while processing your request. Please try again later."
)

var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrMissingAPIKey = errors.New("API key is required")
)

// Client sends a prompt with prior history to a chat model and returns its
// reply. History holds earlier turns only, never the prompt itself.
type Client interface {
	SendChatMessage(ctx context.Context, history []Message, prompt string) (string, error)
}

// NewClient builds the client for ai.Provider. Providers that need a key
// fall back to the offline responder when none is configured.
func NewClient(ctx context.Context, ai config.AISettings) (Client, error) {
	switch ai.Provider {
	case config.ProviderOffline:
		return NewOfflineClient(ai.EnableCalendarSync), nil
	case config.ProviderOllama:
		return NewEinoClient(ctx, ai)
	case config.ProviderGemini, config.ProviderOpenAI, config.ProviderAnthropic:
		if !ai.HasAPIKey() {
			slog.Info("no API key configured, using offline assistant", "provider", ai.Provider)
			return NewOfflineClient(ai.EnableCalendarSync), nil
		}
		if ai.Provider == config.ProviderGemini {
			return NewGeminiClient(ctx, ai)
		}
		return NewEinoClient(ctx, ai)
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s (supported: gemini, openai, ollama, anthropic, offline)", ai.Provider)
	}
}

// splitSystem separates system turns from the dialogue.
func splitSystem(history []Message) (system string, dialogue []Message) {
	for _, m := range history {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		dialogue = append(dialogue, m)
	}
	return system, dialogue
}
