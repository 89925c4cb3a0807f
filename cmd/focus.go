/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

// focusCmd represents the focus command
var focusCmd = &cobra.Command{
	Use:     "focus",
	Aliases: []string{"pomodoro"},
	Short:   "Run the Pomodoro timer and review focus sessions",
}

var focusStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the interactive focus timer",
	Long: `Start the full-screen Pomodoro timer.

Every finished focus interval is recorded as a completed session. Resetting,
switching to a break early or quitting mid-focus records an abandoned one.

Keys: space start/pause, r reset, s switch mode, q quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return fmt.Errorf("the focus timer needs an interactive terminal; use 'tempoflow focus log' instead")
		}
		a, settings, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}

		var opts []ui.TimerOption
		var taskID string
		if focusTask != "" {
			t, err := resolveTask(cmd, a, focusTask)
			if err != nil {
				return err
			}
			taskID = t.ID
			opts = append(opts, ui.WithTaskLabel(t.Title))
		}

		var recorded []focus.Session
		timer := focus.NewTimer(settings.Timer)
		model := ui.NewTimerModel(timer, func(s focus.Session) {
			s.TaskID = taskID
			saved, err := a.Sessions.Record(cmd.Context(), s)
			if err != nil {
				slog.Error("could not record focus session", "error", err)
				return
			}
			recorded = append(recorded, saved)
		}, opts...)
		if err := ui.RunTimer(model); err != nil {
			return fmt.Errorf("run timer: %w", err)
		}

		if isJSON() {
			return printJSON(recorded)
		}
		if !isQuiet() {
			fmt.Println(summarizeSessions(recorded))
		}
		return nil
	},
}

var focusLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a focus session you ran elsewhere",
	Long: `Record a focus session without running the timer.

Examples:
  tempoflow focus log --minutes 25
  tempoflow focus log --minutes 10 --abandoned --at 2025-06-14T09:00:00+02:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, settings, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		minutes := focusMinutes
		if minutes == 0 {
			minutes = settings.Timer.FocusMinutes
		}
		at := a.Now()
		if focusAt != "" {
			at, err = time.Parse(time.RFC3339, focusAt)
			if err != nil {
				return fmt.Errorf("invalid --at %q: use RFC 3339, e.g. 2025-06-15T09:30:00Z", focusAt)
			}
		}
		s := focus.Session{Duration: minutes, Completed: !focusAbandoned, Date: at}
		if focusTask != "" {
			s.TaskID, err = a.Tasks.Resolve(cmd.Context(), focusTask)
			if err != nil {
				return err
			}
		}

		saved, err := a.Sessions.Record(cmd.Context(), s)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(saved)
		}
		if !isQuiet() {
			fmt.Println(ui.StyleSuccess.Render("✓ Recorded " + sessionState(saved) + " session"))
			fmt.Printf("  %s  %d min  %s\n", saved.ID, saved.Duration, saved.Date.Format(time.RFC3339))
		}
		return nil
	},
}

var focusListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded focus sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		sessions, err := recentSessions(cmd, a, focusDays)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(sessions)
		}
		if len(sessions) == 0 {
			fmt.Println("No focus sessions yet. Start one with 'tempoflow focus start'.")
			return nil
		}

		table := &ui.Table{Headers: []string{"ID", "Date", "Minutes", "State", "Task"}, MaxWidth: 40}
		for _, s := range sessions {
			table.Rows = append(table.Rows, []string{
				s.ID,
				s.Date.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d", s.Duration),
				sessionState(s),
				s.TaskID,
			})
		}
		fmt.Println(table.Render())
		if !isQuiet() {
			fmt.Println(ui.StyleSubtle.Render(summarizeSessions(sessions)))
		}
		return nil
	},
}

var (
	focusTask      string
	focusMinutes   int
	focusAbandoned bool
	focusAt        string
	focusDays      int
)

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.AddCommand(focusStartCmd, focusLogCmd, focusListCmd)

	focusStartCmd.Flags().StringVar(&focusTask, "task", "", "link sessions to a task (ID or prefix)")

	focusLogCmd.Flags().IntVarP(&focusMinutes, "minutes", "m", 0, "session length in minutes (default: timer focus length)")
	focusLogCmd.Flags().BoolVar(&focusAbandoned, "abandoned", false, "record the session as abandoned")
	focusLogCmd.Flags().StringVar(&focusAt, "at", "", "when the session happened (RFC 3339, default now)")
	focusLogCmd.Flags().StringVar(&focusTask, "task", "", "link the session to a task (ID or prefix)")

	focusListCmd.Flags().IntVar(&focusDays, "days", 0, "only sessions from the last N days")
}

// recentSessions returns sessions newest first, limited to the last days when
// days > 0.
func recentSessions(cmd *cobra.Command, a *app.Context, days int) ([]focus.Session, error) {
	all, err := a.Sessions.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	out := make([]focus.Session, 0, len(all))
	cutoff := a.Now().AddDate(0, 0, -days)
	for _, s := range all {
		if days > 0 && s.Date.Before(cutoff) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func sessionState(s focus.Session) string {
	if s.Completed {
		return "completed"
	}
	return "abandoned"
}

func summarizeSessions(sessions []focus.Session) string {
	completed, minutes := 0, 0
	for _, s := range sessions {
		if s.Completed {
			completed++
			minutes += s.Duration
		}
	}
	return fmt.Sprintf("%d sessions, %d completed, %d focused minutes", len(sessions), completed, minutes)
}
