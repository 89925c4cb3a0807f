package assistant

import (
	"context"
	"strings"
)

// Canned replies of the offline responder.
const (
	ReplyCalendarAdded    = "I've added this to your calendar. Would you like me to set a reminder as well?"
	ReplyCalendarDisabled = "It looks like you want to create a calendar event. Please enable calendar sync in settings to use this feature."
	ReplyTasks            = "I can help you manage your tasks. Would you like me to add this to your task list?"
	ReplyFocus            = "A focus session might help. Start the timer and I'll keep track of it in your productivity score."
	ReplyDefault          = "I understand you need assistance. How else can I help you with your productivity today?"
)

// OfflineClient answers from keywords without calling any model. It is used
// when no provider is configured.
type OfflineClient struct {
	calendarSync bool
}

// NewOfflineClient returns a keyword responder.
func NewOfflineClient(calendarSync bool) *OfflineClient {
	return &OfflineClient{calendarSync: calendarSync}
}

// SendChatMessage implements Client. History is ignored.
func (c *OfflineClient) SendChatMessage(_ context.Context, _ []Message, prompt string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(prompt))
	if p == "" {
		return "", ErrEmptyPrompt
	}
	switch {
	case strings.Contains(p, "reminder") || strings.Contains(p, "calendar"):
		if c.calendarSync {
			return ReplyCalendarAdded, nil
		}
		return ReplyCalendarDisabled, nil
	case strings.Contains(p, "task") || strings.Contains(p, "todo"):
		return ReplyTasks, nil
	case strings.Contains(p, "focus") || strings.Contains(p, "pomodoro"):
		return ReplyFocus, nil
	default:
		return ReplyDefault, nil
	}
}
