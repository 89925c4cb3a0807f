package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tempoflow-ai/tempoflow/internal/productivity"
)

// Conversation is a chat transcript that starts with the assistant greeting.
// It is safe for concurrent use; sends are serialized.
type Conversation struct {
	mu       sync.Mutex
	client   Client
	system   string
	messages []Message
	onSend   func(prompt string)
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithSystemPrompt prepends a system turn to every request.
func WithSystemPrompt(prompt string) ConversationOption {
	return func(c *Conversation) { c.system = prompt }
}

// WithSendHook is called before each prompt goes out, e.g. for telemetry.
func WithSendHook(fn func(prompt string)) ConversationOption {
	return func(c *Conversation) { c.onSend = fn }
}

// NewConversation starts a transcript with the greeting.
func NewConversation(client Client, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		client:   client,
		messages: []Message{{Role: RoleModel, Content: Greeting}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Messages returns a copy of the transcript, greeting included.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Send appends prompt, asks the client and appends the reply. When the
// client fails the reply is ErrorReply and the error is returned alongside it.
func (c *Conversation) Send(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	history := c.historyLocked()
	c.messages = append(c.messages, Message{Role: RoleUser, Content: prompt})
	if c.onSend != nil {
		c.onSend(prompt)
	}

	reply, err := c.client.SendChatMessage(ctx, history, prompt)
	if err != nil {
		slog.Warn("assistant request failed", "error", err)
		c.messages = append(c.messages, Message{Role: RoleModel, Content: ErrorReply})
		return ErrorReply, err
	}
	c.messages = append(c.messages, Message{Role: RoleModel, Content: reply})
	return reply, nil
}

// historyLocked is the transcript without the greeting, behind the system prompt.
func (c *Conversation) historyLocked() []Message {
	history := make([]Message, 0, len(c.messages))
	if c.system != "" {
		history = append(history, Message{Role: RoleSystem, Content: c.system})
	}
	if len(c.messages) > 1 {
		history = append(history, c.messages[1:]...)
	}
	return history
}

// HistoryFromTranscript drops a leading greeting from a client-supplied
// transcript, as the web dashboard did before seeding a chat session.
func HistoryFromTranscript(transcript []Message) []Message {
	if len(transcript) > 0 && transcript[0].Role == RoleModel && transcript[0].Content == Greeting {
		return transcript[1:]
	}
	return transcript
}

// ProductivityContext renders metrics as a system prompt so the assistant
// can answer questions about the user's recent productivity.
func ProductivityContext(m productivity.Metrics) string {
	var b strings.Builder
	b.WriteString("You are TempoFlow's productivity assistant. Be concise and practical.\n")
	fmt.Fprintf(&b, "The user's productivity over the last %d days:\n", m.TimeframeDays)
	fmt.Fprintf(&b, "- Overall score: %d/100\n", m.OverallScore)
	fmt.Fprintf(&b, "- Task completion rate: %d%% (%d tasks)\n", m.TaskCompletionRate, m.TasksInWindow)
	fmt.Fprintf(&b, "- Focus session efficiency: %d%% (%d sessions, %d minutes)\n", m.FocusSessionEfficiency, m.SessionsInWindow, m.TotalFocusMinutes)
	fmt.Fprintf(&b, "- Consistency: %d%% (%d active days)\n", m.ConsistencyScore, m.ActiveDays)
	if len(m.Insights) > 0 {
		b.WriteString("Current insights:\n")
		for _, in := range m.Insights {
			fmt.Fprintf(&b, "- %s\n", in)
		}
	}
	return b.String()
}
