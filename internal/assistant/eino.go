package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// EinoClient adapts any Eino chat model to Client.
type EinoClient struct {
	chat model.BaseChatModel
	opts []model.Option
}

// NewChatModel creates the Eino chat model for an OpenAI-compatible,
// Ollama or Anthropic provider.
func NewChatModel(ctx context.Context, ai config.AISettings) (model.BaseChatModel, error) {
	modelName := ai.Model
	if modelName == "" {
		modelName = config.DefaultModelForProvider(ai.Provider)
	}

	switch ai.Provider {
	case config.ProviderOpenAI:
		if !ai.HasAPIKey() {
			return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
		}
		// BaseURL carries custom OpenAI-compatible endpoints.
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:   modelName,
			APIKey:  ai.APIKey,
			BaseURL: ai.BaseURL,
		})

	case config.ProviderOllama:
		baseURL := ai.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   modelName,
		})

	case config.ProviderAnthropic:
		if !ai.HasAPIKey() {
			return nil, fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    ai.APIKey,
			Model:     modelName,
			MaxTokens: ai.MaxOutputTokens,
		})

	default:
		return nil, fmt.Errorf("unsupported eino provider: %s (supported: openai, ollama, anthropic)", ai.Provider)
	}
}

// NewEinoClient builds the provider model and wraps it.
func NewEinoClient(ctx context.Context, ai config.AISettings) (*EinoClient, error) {
	chat, err := NewChatModel(ctx, ai)
	if err != nil {
		return nil, err
	}
	return WrapChatModel(chat, ai), nil
}

// WrapChatModel wraps an existing model, applying ai's generation settings
// to every call.
func WrapChatModel(chat model.BaseChatModel, ai config.AISettings) *EinoClient {
	return &EinoClient{
		chat: chat,
		opts: []model.Option{
			model.WithTemperature(float32(ai.Temperature)),
			model.WithTopP(float32(ai.TopP)),
			model.WithMaxTokens(ai.MaxOutputTokens),
		},
	}
}

// SendChatMessage implements Client.
func (c *EinoClient) SendChatMessage(ctx context.Context, history []Message, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	msgs := make([]*schema.Message, 0, len(history)+1)
	for _, m := range history {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, schema.SystemMessage(m.Content))
		case RoleModel:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}
	msgs = append(msgs, schema.UserMessage(prompt))

	resp, err := c.chat.Generate(ctx, msgs, c.opts...)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}
	return resp.Content, nil
}
