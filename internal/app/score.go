package app

import (
	"context"
	"fmt"

	"github.com/tempoflow-ai/tempoflow/internal/productivity"
	"github.com/tempoflow-ai/tempoflow/internal/telemetry"
)

// Surfaces reported with score_viewed.
const (
	SurfaceCLI = "cli"
	SurfaceAPI = "api"
	SurfaceMCP = "mcp"
)

// Metrics loads every task and session and scores the trailing days.
// Nothing is tracked; use Score for user-facing views.
func (c *Context) Metrics(ctx context.Context, days int) (productivity.Metrics, error) {
	tasks, err := c.Store.ListTasks(ctx)
	if err != nil {
		return productivity.Metrics{}, fmt.Errorf("list tasks: %w", err)
	}
	sessions, err := c.Sessions.List(ctx)
	if err != nil {
		return productivity.Metrics{}, fmt.Errorf("list sessions: %w", err)
	}
	return c.engine.Calculate(tasks, sessions, days), nil
}

// Score is Metrics plus a score_viewed event for surface.
func (c *Context) Score(ctx context.Context, days int, surface string) (productivity.Metrics, error) {
	m, err := c.Metrics(ctx, days)
	if err != nil {
		return m, err
	}
	c.Tracker.Track(telemetry.EventScoreViewed, telemetry.ScoreViewed(days, m.OverallScore, surface))
	return m, nil
}
