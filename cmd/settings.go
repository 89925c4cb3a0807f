/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

// settingKeys are the keys 'settings set' accepts, in display order.
var settingKeys = []string{
	"theme.darkMode",
	"theme.showAIInsights",
	"theme.enableNotifications",
	"timer.focusMinutes",
	"timer.breakMinutes",
	"timer.autoStartBreaks",
	"timer.autoStartFocus",
	"ai.provider",
	"ai.model",
	"ai.apiKey",
	"ai.baseURL",
	"ai.temperature",
	"ai.topK",
	"ai.topP",
	"ai.maxOutputTokens",
	"ai.enableCalendarSync",
	"score.timeframeDays",
	"server.port",
}

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "View and change settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings (API key masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		s = s.Redacted()
		if isJSON() {
			return printJSON(s)
		}
		out, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("render settings: %w", err)
		}
		if !isQuiet() {
			path := viper.ConfigFileUsed()
			if path == "" {
				path = configPath()
			}
			fmt.Println(ui.StyleSubtle.Render("# " + path))
		}
		fmt.Print(string(out))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting and write it to the config file.

Numeric values are clamped to their allowed range, e.g. timer.focusMinutes
to 1..60. Known keys:
  ` + strings.Join(settingKeys, "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, ok := canonicalSettingKey(args[0])
		if !ok {
			return fmt.Errorf("unknown setting %q; see 'tempoflow settings set --help'", args[0])
		}

		viper.Set(key, args[1])
		s, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if err := settingsStore().Save(cmd.Context(), s); err != nil {
			return err
		}

		if isJSON() {
			return printJSON(s.Redacted())
		}
		if !isQuiet() {
			shown := viper.Get(key)
			if key == "ai.apiKey" {
				shown = s.Redacted().AI.APIKey
			}
			fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ %s = %v", key, shown)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}

// canonicalSettingKey matches key case-insensitively against settingKeys.
func canonicalSettingKey(key string) (string, bool) {
	for _, k := range settingKeys {
		if strings.EqualFold(k, strings.TrimSpace(key)) {
			return k, true
		}
	}
	return "", false
}
