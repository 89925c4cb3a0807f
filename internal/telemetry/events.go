package telemetry

// Event names. Properties never carry task titles, prompts or emails.
const (
	EventTaskAdded      = "task_added"
	EventTaskToggled    = "task_toggled"
	EventTaskDeleted    = "task_deleted"
	EventFocusCompleted = "focus_completed"
	EventFocusAbandoned = "focus_abandoned"
	EventScoreViewed    = "score_viewed"
	EventChatSent       = "chat_sent"
	EventCommand        = "command_executed"
)

// ScoreBucket coarsens a 0..100 score to the nearest 10 so exact values are
// not reported.
func ScoreBucket(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score / 10 * 10
}

// ScoreViewed builds the score_viewed properties.
func ScoreViewed(timeframeDays, overall int, surface string) Properties {
	return Properties{
		"timeframe_days": timeframeDays,
		"score_bucket":   ScoreBucket(overall),
		"surface":        surface,
	}
}

// ChatSent builds the chat_sent properties. Only the prompt length is kept.
func ChatSent(provider string, promptLen int) Properties {
	return Properties{
		"provider":      provider,
		"prompt_length": promptLen,
	}
}

// Command builds the command_executed properties.
func Command(name string, durationMs int64, success bool) Properties {
	return Properties{
		"command":     name,
		"duration_ms": durationMs,
		"success":     success,
	}
}
