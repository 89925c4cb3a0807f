package productivity

import "fmt"

// Insight messages, in the order they are evaluated.
const (
	InsightLowCompletion    = "Your task completion rate is low. Try breaking down tasks into smaller, more manageable items."
	InsightHighCompletion   = "Great job completing tasks! Consider challenging yourself with more complex goals."
	InsightLowFocus         = "Your focus sessions could be more effective. Try adjusting the duration or environment to improve concentration."
	InsightHighFocus        = "Your focus sessions are very effective. Keep up the good work!"
	InsightLowConsistency   = "Try to be more consistent with daily productivity sessions for better results."
	InsightHighConsistency  = "You're maintaining excellent consistency in your productivity routine."
	InsightHighPriority     = "Focus more on completing high-priority tasks to improve overall productivity."
	insightOptimalTimeFmt   = "You seem most productive during %s. Consider scheduling important tasks during this time."
	InsightOnTrack          = "Your productivity is on track. Keep maintaining your current workflow."
	highPriorityRateCeiling = 50
)

// Rule thresholds. Low bounds are exclusive (<), high bounds exclusive (>).
const (
	completionLow   = 30
	completionHigh  = 80
	focusLow        = 40
	focusHigh       = 75
	consistencyLow  = 50
	consistencyHigh = 80
)

type insightInput struct {
	metrics           Metrics
	highPriorityTasks int
	optimalHour       int
	hasOptimal        bool
}

// generateInsights applies the rules in a fixed order. A rate rule only fires
// when its denominator is non-empty, so an empty window yields the fallback
// message rather than a string of "low" warnings.
func generateInsights(in insightInput) []string {
	m := in.metrics
	var out []string

	if m.TasksInWindow > 0 {
		switch {
		case m.TaskCompletionRate < completionLow:
			out = append(out, InsightLowCompletion)
		case m.TaskCompletionRate > completionHigh:
			out = append(out, InsightHighCompletion)
		}
	}

	if m.SessionsInWindow > 0 {
		switch {
		case m.FocusSessionEfficiency < focusLow:
			out = append(out, InsightLowFocus)
		case m.FocusSessionEfficiency > focusHigh:
			out = append(out, InsightHighFocus)
		}

		switch {
		case m.ConsistencyScore < consistencyLow:
			out = append(out, InsightLowConsistency)
		case m.ConsistencyScore > consistencyHigh:
			out = append(out, InsightHighConsistency)
		}
	}

	if in.highPriorityTasks > 0 && m.HighPriorityCompletionRate < highPriorityRateCeiling {
		out = append(out, InsightHighPriority)
	}

	if in.hasOptimal {
		out = append(out, OptimalTimeInsight(in.optimalHour))
	}

	if len(out) == 0 {
		out = append(out, InsightOnTrack)
	}
	return out
}

// OptimalTimeInsight renders the peak-hour message for a two-hour window
// starting at hour.
func OptimalTimeInsight(hour int) string {
	return fmt.Sprintf(insightOptimalTimeFmt, TimeRange(hour))
}

// TimeRange renders "<start> - <end>" on a 12-hour clock, where end is two
// hours after start modulo 24.
func TimeRange(hour int) string {
	return FormatHour(hour) + " - " + FormatHour((hour+2)%24)
}

// FormatHour renders an hour of day 0..23 as "12 AM", "9 AM", "12 PM", "3 PM".
func FormatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
