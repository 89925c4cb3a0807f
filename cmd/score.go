/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show your productivity score",
	Long: `Show the 0-100 productivity score for a trailing window.

The score weighs task completion (40%), focus session efficiency (35%) and
day-to-day consistency (25%), followed by insights on what to improve.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, settings, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		days := scoreDays
		if !cmd.Flags().Changed("days") {
			days = settings.Score.TimeframeDays
		}
		if days < 1 || days > config.MaxTimeframeDays {
			return fmt.Errorf("--days must be between 1 and %d", config.MaxTimeframeDays)
		}

		m, err := a.Score(cmd.Context(), days, app.SurfaceCLI)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(m)
		}
		fmt.Println(ui.RenderMetrics(m))
		return nil
	},
}

var scoreDays int

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().IntVarP(&scoreDays, "days", "d", config.DefaultTimeframeDays, "trailing window in days")
}
