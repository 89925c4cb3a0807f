package assistant

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// GeminiClient talks to the Gemini API through a chat session seeded with
// the conversation history.
type GeminiClient struct {
	client *genai.Client
	model  string
	gen    genai.GenerateContentConfig
}

// GeminiOption configures a GeminiClient.
type GeminiOption func(*genai.ClientConfig)

// WithGeminiBaseURL points the client at another API host.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(cc *genai.ClientConfig) { cc.HTTPOptions.BaseURL = url }
}

// NewGeminiClient creates a Gemini chat client from ai.
func NewGeminiClient(ctx context.Context, ai config.AISettings, opts ...GeminiOption) (*GeminiClient, error) {
	if !ai.HasAPIKey() {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	cc := &genai.ClientConfig{APIKey: ai.APIKey, Backend: genai.BackendGeminiAPI}
	if ai.BaseURL != "" {
		cc.HTTPOptions.BaseURL = ai.BaseURL
	}
	for _, opt := range opts {
		opt(cc)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := ai.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	temperature := float32(ai.Temperature)
	topK := float32(ai.TopK)
	topP := float32(ai.TopP)
	return &GeminiClient{
		client: client,
		model:  model,
		gen: genai.GenerateContentConfig{
			Temperature:     &temperature,
			TopK:            &topK,
			TopP:            &topP,
			MaxOutputTokens: int32(ai.MaxOutputTokens),
		},
	}, nil
}

// SendChatMessage implements Client.
func (c *GeminiClient) SendChatMessage(ctx context.Context, history []Message, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	system, dialogue := splitSystem(history)
	gen := c.gen
	if system != "" {
		gen.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := make([]*genai.Content, 0, len(dialogue))
	for _, m := range dialogue {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	chat, err := c.client.Chats.Create(ctx, c.model, &gen, contents)
	if err != nil {
		return "", fmt.Errorf("start gemini chat: %w", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty reply")
	}
	return text, nil
}
