package productivity

import (
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/focus"
)

// Optimal-time detection needs this much history to say anything.
const (
	minSessionsForOptimal  = 5
	minCompletedForOptimal = 3
)

// detectOptimalHour returns the local start hour with the most completed
// sessions. Ties go to the earliest hour.
func detectOptimalHour(sessions []focus.Session, loc *time.Location) (int, bool) {
	if len(sessions) < minSessionsForOptimal {
		return 0, false
	}

	var byHour [24]int
	completed := 0
	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		completed++
		byHour[s.Date.In(loc).Hour()]++
	}
	if completed < minCompletedForOptimal {
		return 0, false
	}

	best, bestCount := 0, 0
	for h, n := range byHour {
		if n > bestCount {
			best, bestCount = h, n
		}
	}
	return best, true
}
