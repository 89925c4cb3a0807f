/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export tasks, sessions and settings",
	Long: `Write a backup of all tasks, focus sessions and settings. The format is
chosen from the extension: .json, .yaml or .yml. The API key is never
exported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, settings, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		snap, err := a.Export(cmd.Context(), afero.NewOsFs(), args[0], &settings)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(map[string]any{
				"path":     args[0],
				"tasks":    len(snap.Tasks),
				"sessions": len(snap.Sessions),
			})
		}
		if !isQuiet() {
			fmt.Println(ui.RenderSuccessPanel("Backup written",
				fmt.Sprintf("%s\n%d tasks, %d focus sessions", args[0], len(snap.Tasks), len(snap.Sessions))))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a backup",
	Long: `Merge a backup into the local data. Tasks and sessions are matched by ID:
existing ones are replaced, new ones added. Settings from the backup are
applied with --settings; your current API key is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		var opts app.ImportOptions
		if importSettings {
			opts.Settings = settingsStore()
		}
		res, err := a.Import(cmd.Context(), afero.NewOsFs(), args[0], opts)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(res)
		}
		if !isQuiet() {
			fmt.Println(ui.RenderSuccessPanel("Imported "+args[0],
				fmt.Sprintf("%d tasks added, %d updated\n%d focus sessions", res.TasksCreated, res.TasksUpdated, res.SessionsSaved)))
		}
		return nil
	},
}

var importSettings bool

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	importCmd.Flags().BoolVar(&importSettings, "settings", false, "also apply the backup's settings")
}
