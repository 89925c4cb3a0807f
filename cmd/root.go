/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tempoflow-ai/tempoflow/internal/logger"
	"github.com/tempoflow-ai/tempoflow/internal/telemetry"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version, set at build time.
	version = "0.1.0"
	// posthogKey is injected with -ldflags for release builds.
	posthogKey = ""
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tempoflow",
	Short: "TempoFlow - focus timer, tasks and a productivity score",
	Long: `TempoFlow tracks your tasks and Pomodoro focus sessions and turns them
into a 0-100 productivity score with actionable insights.

The same data is served to the web dashboard (tempoflow serve) and to AI
assistants over MCP (tempoflow mcp).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand(strings.TrimPrefix(cmd.CommandPath(), "tempoflow "))
		maybePromptTelemetry(cmd)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()

	start := time.Now()
	cmd, err := rootCmd.ExecuteC()
	trackCommand(cmd, time.Since(start), err == nil)
	closeApp()

	if err != nil {
		HandleFatalError(err)
	}
}

// GetVersion returns the CLI version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.tempoflow/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-essential output")

	bindGlobalFlags()

	rootCmd.SetVersionTemplate("tempoflow {{.Version}}\n")
}

// bindGlobalFlags exposes the persistent flags through viper.
func bindGlobalFlags() {
	for _, name := range []string{"config", "verbose", "json", "quiet"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// trackCommand reports the command name and outcome, never its arguments.
func trackCommand(cmd *cobra.Command, took time.Duration, success bool) {
	if cmd == nil || current == nil {
		return
	}
	current.Tracker.Track(telemetry.EventCommand, telemetry.Command(cmd.CommandPath(), took.Milliseconds(), success))
}

// maybePromptTelemetry asks for consent once, on the first interactive run.
// Commands that own stdin or stdout skip it.
func maybePromptTelemetry(cmd *cobra.Command) {
	if posthogKey == "" || isJSON() || isQuiet() {
		return
	}
	switch cmd.Name() {
	case "mcp", "telemetry", "enable", "disable", "status", "help", "completion":
		return
	}
	cfg, err := telemetry.Load()
	if err != nil || !cfg.NeedsConsent() {
		return
	}
	if _, err := telemetry.PromptForConsent(cfg, os.Stdin, os.Stderr, isInteractive()); err != nil {
		LogError("save telemetry consent", err)
	}
}
