package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tempoflow-ai/tempoflow/internal/assistant"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/telemetry"
)

// ChatRequest is one prompt with the transcript that preceded it. The
// transcript may start with the assistant greeting.
type ChatRequest struct {
	History []assistant.Message `json:"history"`
	Prompt  string              `json:"prompt"`
}

// ChatResult is the assistant reply. Degraded is set when the provider
// failed and Reply is the fixed apology.
type ChatResult struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Chat sends req with the given settings. Provider failures never surface as
// errors; only an empty prompt does.
func (c *Context) Chat(ctx context.Context, settings config.Settings, req ChatRequest) (ChatResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return ChatResult{}, assistant.ErrEmptyPrompt
	}
	res := ChatResult{Provider: settings.AI.Provider}

	client, err := c.newAssistant(ctx, settings.AI)
	if err != nil {
		slog.Warn("assistant unavailable", "provider", settings.AI.Provider, "error", err)
		res.Reply, res.Degraded = assistant.ErrorReply, true
		return res, nil
	}

	history := assistant.HistoryFromTranscript(req.History)
	if system := c.SystemPrompt(ctx, settings); system != "" {
		history = append([]assistant.Message{{Role: assistant.RoleSystem, Content: system}}, history...)
	}

	c.Tracker.Track(telemetry.EventChatSent, telemetry.ChatSent(settings.AI.Provider, len(prompt)))
	reply, err := client.SendChatMessage(ctx, history, prompt)
	if err != nil {
		slog.Warn("assistant request failed", "provider", settings.AI.Provider, "error", err)
		res.Reply, res.Degraded = assistant.ErrorReply, true
		return res, nil
	}
	res.Reply = reply
	return res, nil
}

// NewConversation starts an interactive chat for the CLI.
func (c *Context) NewConversation(ctx context.Context, settings config.Settings) (*assistant.Conversation, error) {
	client, err := c.newAssistant(ctx, settings.AI)
	if err != nil {
		return nil, err
	}
	opts := []assistant.ConversationOption{
		assistant.WithSendHook(func(prompt string) {
			c.Tracker.Track(telemetry.EventChatSent, telemetry.ChatSent(settings.AI.Provider, len(prompt)))
		}),
	}
	if system := c.SystemPrompt(ctx, settings); system != "" {
		opts = append(opts, assistant.WithSystemPrompt(system))
	}
	return assistant.NewConversation(client, opts...), nil
}

// SystemPrompt summarises current metrics when AI insights are enabled.
func (c *Context) SystemPrompt(ctx context.Context, settings config.Settings) string {
	if !settings.Theme.ShowAIInsights {
		return ""
	}
	m, err := c.Metrics(ctx, settings.Score.TimeframeDays)
	if err != nil {
		slog.Debug("skipping productivity context", "error", err)
		return ""
	}
	return assistant.ProductivityContext(m)
}
