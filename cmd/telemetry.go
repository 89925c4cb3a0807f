/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage TempoFlow's anonymous telemetry settings.

TempoFlow can send anonymous usage events (command names, score buckets,
provider names) to improve the product. Task titles, prompts and settings
are never sent. Set TEMPOFLOW_TELEMETRY_DISABLED=1 to turn it off
regardless of consent.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("load telemetry config: %w", err)
		}
		configPath, _ := telemetry.ConfigPath()
		envDisabled := os.Getenv(telemetry.EnvDisable) != ""

		if isJSON() {
			return printJSON(map[string]any{
				"enabled":       cfg.IsEnabled(),
				"consent_asked": !cfg.NeedsConsent(),
				"env_disabled":  envDisabled,
				"anonymous_id":  cfg.AnonymousID,
				"config_path":   configPath,
			})
		}

		status := "Disabled"
		statusIcon := "❌"
		if cfg.IsEnabled() {
			status = "Enabled"
			statusIcon = "✅"
		}
		fmt.Println("Telemetry Configuration")
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Printf("  Status:       %s %s\n", statusIcon, status)
		if envDisabled {
			fmt.Printf("  Override:     %s is set\n", telemetry.EnvDisable)
		}
		fmt.Printf("  Anonymous ID: %s\n", cfg.AnonymousID)
		fmt.Printf("  Config file:  %s\n", configPath)
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  tempoflow telemetry enable   Enable telemetry")
		fmt.Println("  tempoflow telemetry disable  Disable telemetry")
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(false)
	},
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd, telemetryEnableCmd, telemetryDisableCmd)
}

func setTelemetry(enabled bool) error {
	cfg, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("load telemetry config: %w", err)
	}
	if enabled {
		cfg.Enable()
	} else {
		cfg.Disable()
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save telemetry config: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]any{"enabled": enabled})
	}
	if enabled {
		fmt.Println("✅ Telemetry enabled. Thank you for helping improve TempoFlow!")
	} else {
		fmt.Println("✅ Telemetry disabled.")
	}
	return nil
}
